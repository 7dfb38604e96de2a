package notification

import "strings"

// Options are the deployment-wide settings that shape a report email.
type Options struct {
	MailFrom            string
	CTA                 string
	CTAURL              string
	ReportSubjectPrefix string
	AlertTitlePrefix    string
}

// Subject derives the email subject from a report name. Names mentioning
// "alert" get the alert prefix. The title is the name up to its second colon,
// so "Alert: CPU: host-1 over 90%" becomes "Alert: CPU".
func Subject(name string, opts Options) string {
	prefix := opts.ReportSubjectPrefix
	if strings.Contains(strings.ToLower(name), "alert") {
		prefix = opts.AlertTitlePrefix
	}
	return strings.TrimSpace(strings.TrimSpace(prefix) + " " + title(name))
}

func title(name string) string {
	first := strings.IndexByte(name, ':')
	if first < 0 {
		return strings.TrimSpace(name)
	}
	second := strings.IndexByte(name[first+1:], ':')
	if second < 0 {
		return strings.TrimSpace(name)
	}
	return strings.TrimSpace(name[:first+1+second])
}
