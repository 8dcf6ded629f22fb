package controllers

import (
	"time"

	"github.com/medisetu/clinic-appointments/cache"
	"github.com/medisetu/clinic-appointments/meet"
	"github.com/medisetu/clinic-appointments/notify"
	"github.com/medisetu/clinic-appointments/scheduler"
)

// Shared collaborators, wired once from main. Handlers stay plain functions.
var (
	Store       *scheduler.GormStore
	Guard       *scheduler.Guard
	SlotCache   *cache.SlotCache
	Dispatcher  *notify.Dispatcher
	Provisioner meet.Provisioner
	ClinicLoc   = time.UTC
)

func Init(
	store *scheduler.GormStore,
	guard *scheduler.Guard,
	slotCache *cache.SlotCache,
	dispatcher *notify.Dispatcher,
	provisioner meet.Provisioner,
	loc *time.Location,
) {
	Store = store
	Guard = guard
	SlotCache = slotCache
	Dispatcher = dispatcher
	Provisioner = provisioner
	if loc != nil {
		ClinicLoc = loc
	}
}
