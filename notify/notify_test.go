package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/artlurun/api/config"
)

// Without SMTP credentials every send is skipped and reported unsuccessful so
// callers log it, but nothing blows up in dev environments.
func TestMailerWithoutCredentialsSkipsSend(t *testing.T) {
	m := NewMailer(&config.Config{SMTPHost: "smtp.example.com", SMTPPort: "587"}, zap.NewNop())

	assert.False(t, m.SendAccessCode("a@b.com", "Sam", "UTMB", "ABCD2345"))
	assert.False(t, m.SendReportReady("a@b.com", "Sam", "UTMB"))
	assert.False(t, m.SendOrderNotice("admin@example.com", Order{RaceName: "UTMB"}))
}

func TestAccessCodeTemplate(t *testing.T) {
	var body bytes.Buffer
	err := accessCodeTmpl.Execute(&body, map[string]string{
		"Name":     "Sam",
		"RaceName": "Leadville Trail 100",
		"Code":     "ABCD2345",
	})
	require.NoError(t, err)

	out := body.String()
	assert.Contains(t, out, "ABCD2345")
	assert.Contains(t, out, "Leadville Trail 100")
	assert.Contains(t, out, "Hey Sam!")
}

func TestOrderNoticeTemplate(t *testing.T) {
	var body bytes.Buffer
	err := orderNoticeTmpl.Execute(&body, Order{
		Name:     "Sam",
		Email:    "a@b.com",
		RaceName: "Hardrock 100",
		GoalTime: "40:00:00",
		City:     "Boulder",
		State:    "CO",
	})
	require.NoError(t, err)

	out := body.String()
	assert.Contains(t, out, "Hardrock 100")
	assert.Contains(t, out, "Boulder, CO")
}

func TestOrRunner(t *testing.T) {
	assert.Equal(t, "Runner", orRunner(""))
	assert.Equal(t, "Sam", orRunner("Sam"))
}
