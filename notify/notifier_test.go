package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGomailSenderNilWithoutConfig(t *testing.T) {
	assert.Nil(t, NewGomailSender("", 587, "", ""))
	assert.Nil(t, NewGomailSender("smtp.example.com", 587, "", "pass"))
	assert.NotNil(t, NewGomailSender("smtp.example.com", 587, "clinic@example.com", "pass"))
}

func TestNewWhatsAppClientNilWithoutConfig(t *testing.T) {
	assert.Nil(t, NewWhatsAppClient("", "token", "12345"))
	assert.Nil(t, NewWhatsAppClient("https://graph.example.com", "", "12345"))
	assert.NotNil(t, NewWhatsAppClient("https://graph.example.com", "token", "12345"))
}

func TestWhatsAppClientSend(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewWhatsAppClient(srv.URL, "secret-token", "98765")
	err := client.Send("+919876543210", "Your appointment is booked.")
	require.NoError(t, err)

	assert.Equal(t, "/98765/messages", gotPath)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "+919876543210", gotBody["to"])
	text, _ := gotBody["text"].(map[string]interface{})
	assert.Equal(t, "Your appointment is booked.", text["body"])
}

func TestWhatsAppClientSendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewWhatsAppClient(srv.URL, "bad-token", "98765")
	err := client.Send("+919876543210", "hello")
	assert.Error(t, err)
}
