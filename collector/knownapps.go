package collector

// knownApp maps a process-name substring to a curated description.
// The table is an ordered slice, not a map: rule order breaks ties and
// has to stay stable so classification is reproducible.
type knownApp struct {
	keyword     string
	description string
}

var knownApps = []knownApp{
	// Package managers
	{"uv", "UV Package Manager - Fast Python package installer"},
	{"pip", "Pip - Python package installer"},
	{"npm", "NPM - Node.js package manager"},
	{"yarn", "Yarn - JavaScript package manager"},
	{"pnpm", "PNPM - Fast, disk space efficient package manager"},
	{"cargo", "Cargo - Rust package manager"},
	{"brew", "Homebrew - macOS package manager"},

	// Development servers
	{"webpack", "Webpack Dev Server - JavaScript bundler"},
	{"vite", "Vite Dev Server - Fast frontend build tool"},
	{"next", "Next.js Dev Server - React framework"},
	{"django", "Django Dev Server - Python web framework"},
	{"flask", "Flask Dev Server - Python micro framework"},
	{"rails", "Rails Server - Ruby web framework"},
	{"nodemon", "Nodemon - Node.js auto-restart tool"},

	// Databases
	{"postgres", "PostgreSQL Database Server"},
	{"mysql", "MySQL Database Server"},
	{"mongodb", "MongoDB NoSQL Database"},
	{"redis", "Redis In-Memory Data Store"},
	{"elasticsearch", "Elasticsearch Search Engine"},

	// Tools
	{"docker", "Docker Container Platform"},
	{"kubectl", "Kubernetes CLI"},
	{"terraform", "Terraform Infrastructure Tool"},
	{"git", "Git Version Control"},
	{"code", "Visual Studio Code"},
	{"vim", "Vim Text Editor"},
	{"nvim", "Neovim Text Editor"},
	{"emacs", "Emacs Text Editor"},
}

// pythonModules maps `python -m <module>` invocations to descriptions.
var pythonModules = map[string]string{
	"http.server": "Python HTTP Server",
	"flask":       "Flask Dev Server",
	"django":      "Django Server",
	"pytest":      "PyTest Runner",
	"unittest":    "Unit Tests",
	"pip":         "Pip Package Manager",
	"venv":        "Virtual Environment",
	"jupyter":     "Jupyter Notebook",
	"ipython":     "IPython Shell",
}

// gitOperations are the sub-commands called out by name in descriptions.
var gitOperations = []string{"clone", "pull", "push", "fetch", "merge", "rebase", "commit"}
