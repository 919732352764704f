package delivery

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/jobpulse/jobpulse/internal/model"
)

// PersonalInfo fills the signature block of outbound messages.
type PersonalInfo struct {
	Name     string
	LinkedIn string
	GitHub   string
}

var jobApplicationTmpl = template.Must(template.New("job").Parse(`Hi,

I came across your job posting for a backend developer position and I'm very interested in joining your team.

I'm a backend engineer with expertise in:
- Node.js, TypeScript, and Python
- REST APIs and microservices architecture
- Database design (PostgreSQL, MongoDB)
- Cloud platforms (AWS, Docker, Kubernetes)
- Agile development and CI/CD

I've successfully delivered scalable backend solutions for startups and established companies. I'm passionate about writing clean, efficient code and solving complex technical challenges.

I'd love to discuss how I can contribute to your team's success. I'm available for a call at your convenience.

Best regards,
{{.Info.Name}}
{{.Info.LinkedIn}}
{{.Info.GitHub}}

---
Found via: {{.URL}}
`))

var companyOutreachTmpl = template.Must(template.New("company").Parse(`Hello,

I hope this message finds you well. I'm reaching out because I'm impressed with {{.Company}}'s work.

As a backend engineer with 5+ years of experience, I specialize in:
- Scalable API development (Node.js, Python)
- Cloud architecture and deployment
- Database optimization and design
- Team collaboration and code review

I'm particularly interested in {{.Description}} and would love to explore opportunities to contribute to your engineering team.

Would you be open to a brief conversation about potential openings or future opportunities?

Thank you for your time.

Best regards,
{{.Info.Name}}
{{.Info.LinkedIn}}
{{.Info.GitHub}}
`))

// Compose builds the subject and body for an entity. Leads get the job
// application template, companies the outreach template.
func Compose(e model.Entity, info PersonalInfo) (subject, body string) {
	var buf bytes.Buffer

	if e.Kind == model.KindCompany {
		subject = fmt.Sprintf("Experienced Backend Engineer - %s", info.Name)
		desc := e.Description
		if desc == "" {
			desc = "innovative technology solutions"
		}
		_ = companyOutreachTmpl.Execute(&buf, struct {
			Company     string
			Description string
			Info        PersonalInfo
		}{e.Name, desc, info})
		return subject, buf.String()
	}

	subject = fmt.Sprintf("Backend Engineer Application - %s", info.Name)
	url := e.URL
	if url == "" {
		url = "Direct outreach"
	}
	_ = jobApplicationTmpl.Execute(&buf, struct {
		URL  string
		Info PersonalInfo
	}{url, info})
	return subject, buf.String()
}
