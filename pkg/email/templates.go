package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"time"
)

type layoutData struct {
	Title      string
	Name       string
	Paragraphs []string
	Code       string
	ActionURL  string
	ActionText string
	Footnote   string
}

var layout = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background-color: #f4f4f4;">
    <table role="presentation" style="width: 100%; border-collapse: collapse;">
        <tr>
            <td align="center" style="padding: 40px 0;">
                <table role="presentation" style="width: 600px; border-collapse: collapse; background-color: #ffffff; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1);">
                    <tr>
                        <td style="padding: 40px 30px; text-align: center; background-color: #1F4E79; border-radius: 8px 8px 0 0;">
                            <h1 style="margin: 0; color: #ffffff; font-size: 28px;">{{.Title}}</h1>
                        </td>
                    </tr>
                    <tr>
                        <td style="padding: 40px 30px;">
                            <p style="margin: 0 0 20px; font-size: 16px; line-height: 24px; color: #333333;">Hi {{.Name}},</p>
                            {{range .Paragraphs}}<p style="margin: 0 0 20px; font-size: 16px; line-height: 24px; color: #333333;">{{.}}</p>
                            {{end}}{{if .Code}}<p style="margin: 30px 0; text-align: center; font-size: 32px; letter-spacing: 8px; font-weight: bold; color: #1F4E79;">{{.Code}}</p>
                            {{end}}{{if .ActionURL}}<table role="presentation" style="margin: 30px 0;">
                                <tr>
                                    <td align="center">
                                        <a href="{{.ActionURL}}" style="display: inline-block; padding: 14px 40px; background-color: #1F4E79; color: #ffffff; text-decoration: none; border-radius: 6px; font-size: 16px; font-weight: bold;">{{.ActionText}}</a>
                                    </td>
                                </tr>
                            </table>
                            {{end}}{{if .Footnote}}<p style="margin: 20px 0 0; font-size: 14px; line-height: 20px; color: #666666;">{{.Footnote}}</p>{{end}}
                        </td>
                    </tr>
                    <tr>
                        <td style="padding: 30px; text-align: center; background-color: #f8f8f8; border-radius: 0 0 8px 8px;">
                            <p style="margin: 0; font-size: 12px; line-height: 18px; color: #999999;">Binder ERP</p>
                        </td>
                    </tr>
                </table>
            </td>
        </tr>
    </table>
</body>
</html>
`))

func render(data layoutData) string {
	var buf bytes.Buffer
	if err := layout.Execute(&buf, data); err != nil {
		return ""
	}
	return buf.String()
}

// withToken appends token as the "token" query parameter of base
func withToken(base, token string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + "?token=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

// VerificationEmail links to the email verification page
func VerificationEmail(to, name, baseURL, token string, ttl time.Duration) Message {
	link := withToken(baseURL, token)
	return Message{
		To:      to,
		Subject: "Verify your email address",
		HTML: render(layoutData{
			Title:      "Verify Your Email",
			Name:       name,
			Paragraphs: []string{"Please verify your email address by clicking the button below:"},
			ActionURL:  link,
			ActionText: "Verify Email",
			Footnote:   fmt.Sprintf("This link will expire in %s.", humanize(ttl)),
		}),
		Text: fmt.Sprintf("Hi %s,\n\nVerify your email address: %s\n\nThe link expires in %s.\n", name, link, humanize(ttl)),
	}
}

// OTPEmail carries a one-time login code
func OTPEmail(to, name, otp string, ttl time.Duration) Message {
	return Message{
		To:      to,
		Subject: "Your login code",
		HTML: render(layoutData{
			Title:      "Your Login Code",
			Name:       name,
			Paragraphs: []string{"Use the code below to finish signing in:"},
			Code:       otp,
			Footnote:   fmt.Sprintf("The code expires in %s. If you did not try to sign in, change your password.", humanize(ttl)),
		}),
		Text: fmt.Sprintf("Hi %s,\n\nYour login code is %s. It expires in %s.\n", name, otp, humanize(ttl)),
	}
}

// PasswordResetEmail links to the set-password page
func PasswordResetEmail(to, name, baseURL, token string, ttl time.Duration) Message {
	link := withToken(baseURL, token)
	return Message{
		To:      to,
		Subject: "Set your password",
		HTML: render(layoutData{
			Title:      "Set Your Password",
			Name:       name,
			Paragraphs: []string{"Click the button below to choose a new password:"},
			ActionURL:  link,
			ActionText: "Set Password",
			Footnote:   fmt.Sprintf("This link will expire in %s. If you didn't request it, ignore this email.", humanize(ttl)),
		}),
		Text: fmt.Sprintf("Hi %s,\n\nSet your password: %s\n\nThe link expires in %s.\n", name, link, humanize(ttl)),
	}
}

func humanize(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		if h := int(d / time.Hour); h != 1 {
			return fmt.Sprintf("%d hours", h)
		}
		return "1 hour"
	case d >= time.Minute && d%time.Minute == 0:
		if m := int(d / time.Minute); m != 1 {
			return fmt.Sprintf("%d minutes", m)
		}
		return "1 minute"
	}
	return d.String()
}
