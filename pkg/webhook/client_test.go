package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/ahmadsiddiqi/qurandist-backend/pkg/errors"
)

func TestPostDiscordSendsEmbed(t *testing.T) {
	var captured []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		captured, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient()
	err := client.PostDiscord(context.Background(), srv.URL, Message{
		Title:       "New Order Received",
		Description: "Ayesha Khan requested 2 copies",
		Color:       0x2ecc71,
		Fields:      []Field{{Name: "City", Value: "Lahore", Inline: true}},
		Timestamp:   time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	var payload struct {
		Embeds []struct {
			Title     string `json:"title"`
			Color     int    `json:"color"`
			Timestamp string `json:"timestamp"`
			Fields    []struct {
				Name  string `json:"name"`
				Value string `json:"value"`
			} `json:"fields"`
		} `json:"embeds"`
	}
	require.NoError(t, json.Unmarshal(captured, &payload))
	require.Len(t, payload.Embeds, 1)
	assert.Equal(t, "New Order Received", payload.Embeds[0].Title)
	assert.Equal(t, 0x2ecc71, payload.Embeds[0].Color)
	assert.Equal(t, "2026-05-01T12:00:00Z", payload.Embeds[0].Timestamp)
	require.Len(t, payload.Embeds[0].Fields, 1)
	assert.Equal(t, "Lahore", payload.Embeds[0].Fields[0].Value)
}

func TestPostSlackSendsBlocks(t *testing.T) {
	var captured []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient()
	err := client.PostSlack(context.Background(), srv.URL, Message{
		Title:       "Low Stock Alert",
		Description: "Tafheem-ul-Quran is below threshold",
		Fields:      []Field{{Name: "Remaining", Value: "3"}},
	})
	require.NoError(t, err)

	var payload struct {
		Text   string `json:"text"`
		Blocks []struct {
			Type string `json:"type"`
		} `json:"blocks"`
	}
	require.NoError(t, json.Unmarshal(captured, &payload))
	assert.Equal(t, "Low Stock Alert", payload.Text)
	assert.Len(t, payload.Blocks, 2)
}

func TestPostDiscordRejectsEmptyURL(t *testing.T) {
	client := NewClient()
	err := client.PostDiscord(context.Background(), "  ", Message{Title: "x"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestPostSurfacesHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("rate limited"))
	}))
	defer srv.Close()

	client := NewClient()
	err := client.PostDiscord(context.Background(), srv.URL, Message{Title: "x"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
	require.NotNil(t, typed.Unwrap())
	assert.Contains(t, typed.Unwrap().Error(), "429")
}
