package auth

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/kgpnow-api/internal/domain"
)

type mailKind int

const (
	mailVerify mailKind = iota
	mailResend
	mailReset
	mailPasswordChanged
)

type mailCopy struct {
	subject string
	heading string
	intro   string
	footer  string
}

var mailCopies = map[mailKind]mailCopy{
	mailVerify: {
		subject: "%s - Verification OTP",
		heading: "Verify Your Email Address",
		intro:   "Thank you for registering with %s. To complete your registration, please verify your email address by entering the following One-Time Password (OTP):",
		footer:  "For security reasons, do not share this OTP with anyone. %s will never ask you for your password or OTP.",
	},
	mailResend: {
		subject: "%s Resend OTP",
		heading: "Your New OTP Code",
		intro:   "You requested a new OTP for verifying your account. Please use the following One-Time Password:",
		footer:  "For security reasons, do not share this OTP with anyone. %s will never ask you for your password or OTP.",
	},
	mailReset: {
		subject: "%s Password Reset OTP",
		heading: "Password Reset Request",
		intro:   "You requested to reset your password. Please use the following OTP to proceed:",
		footer:  "For security reasons, do not share this OTP with anyone. %s will never ask you for your password or OTP.",
	},
	mailPasswordChanged: {
		subject: "%s Password Updated",
		heading: "Password Updated Successfully",
		intro:   "Your password has been successfully updated. You can now log in to your account using your new password.",
		footer:  "If you didn't make this change, please contact our support immediately.",
	},
}

var mailTemplate = template.Must(template.New("mail").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background-color: #4a6cf7; padding: 20px; text-align: center;">
    <h1 style="color: #ffffff; margin: 0;">{{.Brand}}</h1>
  </div>
  <div style="padding: 30px 20px;">
    <h2 style="color: #333333; margin-top: 0;">{{.Heading}}</h2>
    <p style="color: #555555; font-size: 16px; line-height: 1.6;">Hello {{.Name}},<br><br>{{.Intro}}</p>
    {{- if .Code}}
    <div style="background-color: #f5f8ff; border-radius: 8px; padding: 15px; margin: 25px 0; text-align: center;">
      <div style="font-size: 32px; font-weight: bold; letter-spacing: 8px; color: #4a6cf7;">{{.Code}}</div>
    </div>
    <p style="color: #555555; font-size: 14px; line-height: 1.6;">This OTP is valid for <strong>{{.Validity}}</strong> and can only be used once.<br>If you didn't request this, you can safely ignore this email.</p>
    {{- end}}
    <div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #e0e0e0; color: #888888; font-size: 12px;">
      <p>{{.Footer}}</p>
    </div>
  </div>
  <div style="background-color: #f5f5f5; padding: 15px; text-align: center; font-size: 12px; color: #888888;">
    &copy; {{.Year}} {{.Brand}}. All rights reserved.
  </div>
</div>`))

type mailView struct {
	Brand    string
	Heading  string
	Name     string
	Intro    string
	Code     string
	Validity string
	Footer   string
	Year     int
}

// composer renders the lifecycle emails for one brand.
type composer struct {
	brand string
	ttl   time.Duration
}

func (c composer) compose(kind mailKind, a *domain.Account, code string, now time.Time) (domain.Email, error) {
	cp := mailCopies[kind]
	name := a.Name
	if name == "" {
		name = "User"
	}
	view := mailView{
		Brand:    c.brand,
		Heading:  cp.heading,
		Name:     name,
		Intro:    withBrand(cp.intro, c.brand),
		Code:     spaceDigits(code),
		Validity: humanDuration(c.ttl),
		Footer:   withBrand(cp.footer, c.brand),
		Year:     now.Year(),
	}
	var buf bytes.Buffer
	if err := mailTemplate.Execute(&buf, view); err != nil {
		return domain.Email{}, fmt.Errorf("render mail: %w", err)
	}

	text := fmt.Sprintf("Hello %s,\n\n%s\n", name, view.Intro)
	if code != "" {
		text += fmt.Sprintf("\n%s\n\nThis OTP is valid for %s and can only be used once.\n", code, view.Validity)
	}
	text += "\n" + view.Footer + "\n"

	return domain.Email{
		To:      a.Email,
		Subject: withBrand(cp.subject, c.brand),
		Text:    text,
		HTML:    buf.String(),
	}, nil
}

func withBrand(s, brand string) string {
	if !strings.Contains(s, "%s") {
		return s
	}
	return fmt.Sprintf(s, brand)
}

// spaceDigits renders "042917" as "0 4 2 9 1 7".
func spaceDigits(code string) string {
	return strings.Join(strings.Split(code, ""), " ")
}

func humanDuration(d time.Duration) string {
	m := int(d.Minutes())
	if m == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", m)
}
