package web

import (
	"bytes"   // Render buffer
	"testing" // Go testing framework

	"dorm_booking/internal/domain" // Status values for rendering
	"dorm_booking/internal/flash"  // Flash message fixtures

	"github.com/stretchr/testify/assert"  // Assertions
	"github.com/stretchr/testify/require" // Fatal assertions
)

var pages = []string{
	"index.html",
	"error.html",
	"login.html",
	"forgot_password.html",
	"create_account.html",
	"dashboard.html",
	"room_search.html",
	"book_room.html",
	"view_booking.html",
	"track_application.html",
	"application_search.html",
	"approve_application.html",
	"create_email_template.html",
}

func TestTemplatesParse(t *testing.T) {
	tmpl := Templates()

	for _, name := range pages {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
	assert.NotNil(t, tmpl.Lookup("header"))
	assert.NotNil(t, tmpl.Lookup("footer"))
}

func TestErrorPageRendersFlashes(t *testing.T) {
	var buf bytes.Buffer
	err := Templates().ExecuteTemplate(&buf, "error.html", map[string]any{
		"Title":   "Error",
		"Message": "room store offline",
		"Flashes": []flash.Message{
			{Category: flash.Info, Text: "general notice"},
			{Category: "success_7", Text: "per application"},
		},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "room store offline")
	assert.Contains(t, out, "general notice")
	assert.NotContains(t, out, "per application")
}

func TestFuncs(t *testing.T) {
	msgs := []flash.Message{
		{Category: "success_7", Text: "a"},
		{Category: "danger_17", Text: "b"},
		{Category: flash.Info, Text: "c"},
	}

	forApp := Funcs["forApplication"].(func([]flash.Message, uint) []flash.Message)
	assert.Equal(t, []flash.Message{msgs[0]}, forApp(msgs, 7))

	category := Funcs["category"].(func(flash.Message) string)
	assert.Equal(t, "danger", category(msgs[1]))

	step := Funcs["statusStep"].(func(domain.Status) int)
	assert.Equal(t, domain.StatusPending.Step(), step(domain.StatusPending))
}
