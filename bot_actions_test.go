package relay

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserMessageFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			"quota exceeded",
			ErrQuotaExceeded,
			"⛔ سهمیه 3 عکس امروزت تموم شده",
		},
		{
			"empty prompt",
			ErrEmptyPrompt,
			"❌ مثال:\n/image گربه فضانورد",
		},
		{
			"generation failure",
			generationErr("complete", errors.New("down")),
			"😔 الان نمی‌تونم جواب بدم، چند لحظه دیگه دوباره امتحان کن",
		},
		{
			"storage failure",
			storageErr("count", errors.New("locked")),
			"😔 یه مشکلی پیش اومد، بعداً دوباره امتحان کن",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, userMessageFor(tt.err, 3))
		})
	}
}
