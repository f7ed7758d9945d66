package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input *ses.SendEmailInput
}

func (f *fakeSES) SendEmail(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	return &ses.SendEmailOutput{}, nil
}

func TestSESSender_Send(t *testing.T) {
	client := &fakeSES{}
	sender, err := NewSESSender(client, Config{FromEmail: "no-reply@binder.test", FromName: "Binder"})
	require.NoError(t, err)

	msg := OTPEmail("user@acme.test", "Asha", "004211", 10*time.Minute)
	require.NoError(t, sender.Send(context.Background(), msg))

	require.NotNil(t, client.input)
	assert.Equal(t, "Binder <no-reply@binder.test>", *client.input.Source)
	assert.Equal(t, []string{"user@acme.test"}, client.input.Destination.ToAddresses)
	assert.Equal(t, "Your login code", *client.input.Message.Subject.Data)
	assert.Contains(t, *client.input.Message.Body.Html.Data, "004211")
	assert.Contains(t, *client.input.Message.Body.Text.Data, "10 minutes")
}

func TestNewSESSender_RequiresFrom(t *testing.T) {
	_, err := NewSESSender(&fakeSES{}, Config{})
	assert.Error(t, err)
}

func TestWebhookSender(t *testing.T) {
	var got webhookRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		if got.To == "fail@acme.test" {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"success":false,"error":"relay down"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	sender, err := NewWebhookSender(srv.URL, Config{FromEmail: "no-reply@binder.test"})
	require.NoError(t, err)

	require.NoError(t, sender.Send(context.Background(), Message{To: "user@acme.test", Subject: "hi", Text: "body"}))
	assert.Equal(t, "no-reply@binder.test", got.From)
	assert.Equal(t, "hi", got.Subject)

	err = sender.Send(context.Background(), Message{To: "fail@acme.test", Subject: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "relay down")
}

func TestTemplates(t *testing.T) {
	verify := VerificationEmail("a@acme.test", "<Asha>", "https://app.binder.test/verify", "tok/en", 24*time.Hour)
	assert.Contains(t, verify.HTML, "https://app.binder.test/verify?token=tok%2Fen")
	assert.Contains(t, verify.HTML, "&lt;Asha&gt;")
	assert.Contains(t, verify.Text, "24 hours")

	reset := PasswordResetEmail("a@acme.test", "Asha", "https://app.binder.test/set-password?lang=en", "abc", time.Hour)
	assert.Contains(t, reset.Text, "lang=en&token=abc")
	assert.Contains(t, reset.Text, "1 hour")
}
