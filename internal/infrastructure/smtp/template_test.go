package smtp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationEmail_ContainsTokenProjectAndExpiry(t *testing.T) {
	body, err := VerificationEmail("blog", "tok-abc123", 10*time.Minute, "Share Project")
	require.NoError(t, err)

	assert.Contains(t, body, "tok-abc123")
	assert.Contains(t, body, "blog")
	assert.Contains(t, body, "<strong>10</strong>")
	assert.Contains(t, body, "Share Project")
}

func TestVerificationEmail_EscapesHTMLInInputs(t *testing.T) {
	body, err := VerificationEmail(`<script>x</script>`, "tok", time.Minute, "Share Project")
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
}

func TestVerificationSubject(t *testing.T) {
	assert.Equal(t, "验证您的项目: blog", VerificationSubject("blog"))
}
