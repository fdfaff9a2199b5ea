package service

import "fmt"

func packEmailTemplate(topic, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s content pack is ready", appName)
	body := fmt.Sprintf(`Your content pack on "%s" is attached as a PDF.

Inside you'll find:
- A ready-to-publish blog post
- Social captions for your platforms
- A lead magnet idea
- SEO keywords

If you have questions, just reply to this email.

Best,
The %s Team`, topic, appName)

	return subject, body
}
