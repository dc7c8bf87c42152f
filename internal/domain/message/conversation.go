package message

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/BruksfildServices01/tour-guide-api/internal/httperr"
)

const MaxContentLength = 2000

// ConversationID is the same for both directions of a pair: the two ids
// in ascending numeric order joined with "_".
func ConversationID(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return strconv.FormatUint(uint64(a), 10) + "_" + strconv.FormatUint(uint64(b), 10)
}

func CanSend(senderID, receiverID uint) error {
	if senderID == receiverID {
		return httperr.ErrBusiness(httperr.CodeCannotMessageSelf)
	}
	return nil
}

// NormalizeContent trims content and checks it is neither blank nor longer
// than MaxContentLength characters.
func NormalizeContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", httperr.ErrBusinessf(httperr.CodeInvalidRequest, "Message content is required")
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return "", httperr.ErrBusinessf(httperr.CodeInvalidRequest, "Message content is too long")
	}
	return content, nil
}
