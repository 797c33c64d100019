package util

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studychannel/studychannel/internal/constant"
	"github.com/studychannel/studychannel/internal/model"
)

func TestHashFingerprint(t *testing.T) {
	assert.Equal(t, "", HashFingerprint(""))
	assert.Len(t, HashFingerprint("abc"), 64)
	assert.Equal(t, HashFingerprint("abc"), HashFingerprint("abc"))
	assert.NotEqual(t, HashFingerprint("abc"), HashFingerprint("abd"))
}

func TestCursorRoundTrip(t *testing.T) {
	in := model.Cursor{Id: "7f6c", CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}

	raw, err := EncodeCursor(in)
	require.NoError(t, err)

	out, err := DecodeCursor(raw)
	require.NoError(t, err)
	assert.Equal(t, in.Id, out.Id)
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt))
}

func TestDecodeCursor_EmptyAndGarbage(t *testing.T) {
	c, err := DecodeCursor("")
	require.NoError(t, err)
	assert.True(t, c.IsZero())

	_, err = DecodeCursor("%%%not-base64")
	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "cursor", validationErr.Param)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "あいう…", Truncate("あいうえお", 3))

	long := strings.Repeat("字", constant.SNIPPET_MAX_RUNES+5)
	got := Snippet(long)
	assert.Equal(t, constant.SNIPPET_MAX_RUNES+1, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))

	assert.Equal(t, "a b c", Snippet("a\n b\t\tc"))
}

func TestNormalizeAuthorName(t *testing.T) {
	assert.Equal(t, constant.DEFAULT_AUTHOR_NAME, NormalizeAuthorName(""))
	assert.Equal(t, constant.DEFAULT_AUTHOR_NAME, NormalizeAuthorName("  "))
	assert.Equal(t, "bob", NormalizeAuthorName("<b>bob</b>"))
}

func TestAdminToken(t *testing.T) {
	secret := "test-secret"
	token, err := GenerateAdminToken(secret, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)

	raw, err := ValidateAdminToken(BearerPrefix+token.AccessToken, secret)
	require.NoError(t, err)
	assert.Equal(t, token.AccessToken, raw)

	_, err = ValidateAdminToken(BearerPrefix+token.AccessToken, "other-secret")
	assert.Error(t, err)

	_, err = ValidateAdminToken(token.AccessToken, secret)
	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, constant.ERR_UNAUTHORIZED_ERROR, validationErr.Code)
}

func TestAdminToken_Expired(t *testing.T) {
	secret := "test-secret"
	token, err := GenerateAdminToken(secret, time.Now().Add(-2*AdminTokenDuration))
	require.NoError(t, err)

	_, err = ValidateAdminToken(BearerPrefix+token.AccessToken, secret)
	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "Authentication token is expired", validationErr.Message)
}

func TestSendEmail_StalledServerHonoursContext(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := listener.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	addr := listener.Addr().(*net.TCPAddr)
	cfg := MailConfig{SMTPHost: "127.0.0.1", SMTPPort: addr.Port, SenderEmail: "noreply@studychannel.test"}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = SendEmail(ctx, cfg, "mod@studychannel.test", "subject", "body")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)

	select {
	case conn := <-accepted:
		_ = conn.Close()
	case <-time.After(time.Second):
	}
	_ = listener.Close()
}
