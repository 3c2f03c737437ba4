package portfolio

var (
	bio = "2nd Year CSE student at Walchand Institute of Technology, Solapur. " +
		"I build full-stack applications with Django and React/Svelte, focusing on clean architecture, " +
		"secure data handling, and modern UI/UX. " +
		"From encrypted task managers to offline P2P file transfer systems—I enjoy solving real problems with code."

	taskVault = "Secure full-stack task manager with JWT authentication, Google/GitHub OAuth, " +
		"and Fernet encryption for sensitive data. Built with Django REST Framework and React."

	beamSync = "High-performance offline P2P file transfer system with a cyberpunk terminal UI. " +
		"Features auto-IP detection, dynamic port scouting, and QR-based mobile sync—no internet required."
)

var data = Data{
	Profile: Profile{
		Name:     "Pranav Agarkar",
		Role:     "Fullstack Developer",
		Tagline:  "Building secure, scalable applications from frontend to backend.",
		Location: "Solapur, India",
		Status:   "Open to Opportunities",
		Socials: []Social{
			{Name: "GitHub", URL: "https://github.com/PranavAgarkar07", Label: "GH_REPO", Icon: "fab fa-github"},
			{Name: "LinkedIn", URL: "https://www.linkedin.com/in/pranavagarkar", Label: "LINK_NET", Icon: "fab fa-linkedin"},
			{Name: "Email", URL: "mailto:pranavagarkar8@gmail.com", Label: "MAIL_TO", Icon: "fas fa-envelope"},
			{Name: "Resume", URL: "./Pranav_Agarkar_Resume.pdf", Label: "RESUME", Icon: "fas fa-file-alt"},
		},
		Avatar: "/assets/avatar.png",
	},
	About: About{
		Bio: bio,
		Stats: []Stat{
			{Label: "EXPERIENCE", Value: "2+ Years"},
			{Label: "EDUCATION", Value: "B.Tech CSE"},
			{Label: "TECH STACK", Value: "Full Stack"},
			{Label: "STATUS", Value: "Available"},
		},
	},
	Skills: []Skill{
		{Name: "Python", Icon: "devicon-python-plain"},
		{Name: "Django", Icon: "devicon-django-plain"},
		{Name: "React", Icon: "devicon-react-original colored"},
		{Name: "Svelte", Icon: "devicon-svelte-plain colored"},
		{Name: "Go", Icon: "devicon-go-original-wordmark colored"},
		{Name: "C", Icon: "devicon-c-plain colored"},
		{Name: "JavaScript", Icon: "devicon-javascript-plain colored"},
		{Name: "HTML5", Icon: "devicon-html5-plain colored"},
		{Name: "CSS3", Icon: "devicon-css3-plain colored"},
		{Name: "Docker", Icon: "devicon-docker-plain colored"},
		{Name: "Linux", Icon: "devicon-linux-plain"},
		{Name: "Git", Icon: "devicon-git-plain colored"},
	},
	Projects: []Project{
		{
			Name:        "TaskVault Lite",
			Description: taskVault,
			Tags:        []string{"Django", "React", "JWT", "OAuth", "Security"},
			IsLive:      true,
			Links: []Link{
				{Label: "Live Demo", URL: "https://taskvault-lite.vercel.app/", Icon: "fas fa-external-link-alt"},
				{Label: "GitHub", URL: "https://github.com/PranavAgarkar07/TaskVault-lite", Icon: "fab fa-github"},
			},
		},
		{
			Name:        "BeamSync",
			Description: beamSync,
			Tags:        []string{"Go", "Wails", "Svelte", "Networking", "P2P"},
			IsLive:      false,
			Links: []Link{
				{Label: "GitHub", URL: "https://github.com/PranavAgarkar07/BeamSync", Icon: "fab fa-github"},
			},
		},
	},
}
