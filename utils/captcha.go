package utils

import (
	"github.com/mojocn/base64Captcha"
)

var captchaStore = base64Captcha.DefaultMemStore

// GenerateCaptcha creates a digit captcha and returns its id and image data URI.
func GenerateCaptcha() (string, string, error) {
	driver := base64Captcha.NewDriverDigit(40, 120, 5, 0.7, 80)
	id, b64, _, err := base64Captcha.NewCaptcha(driver, captchaStore).Generate()
	return id, b64, err
}

// VerifyCaptcha checks the answer and consumes the captcha.
func VerifyCaptcha(id, answer string) bool {
	if id == "" || answer == "" {
		return false
	}
	return captchaStore.Verify(id, answer, true)
}
