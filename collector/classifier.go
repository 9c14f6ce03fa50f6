package collector

import (
	"fmt"
	"path/filepath"
	"strings"

	"procview/models"
)

// Classify maps a raw process record to its semantic classification.
// It is deterministic and total: the rule chain below is evaluated in a
// fixed order (known apps, then runtime heuristics, then the System
// fallback) and the user-directory override runs last so it can only
// broaden the result, never narrow it.
func Classify(rec models.ProcessRecord) models.Classification {
	result := models.Classification{
		Category:    models.CategorySystem,
		AppName:     rec.Name,
		Description: rec.Name,
	}

	nameLower := strings.ToLower(rec.Name)

	matched := false
	for _, app := range knownApps {
		if strings.Contains(nameLower, app.keyword) {
			result = models.Classification{
				Category:      models.CategoryDevTool,
				AppName:       titleCase(app.keyword),
				Description:   app.description,
				IsUserProcess: true,
			}
			matched = true
			break
		}
	}

	if !matched && len(rec.Cmdline) > 0 {
		cmd := strings.ToLower(strings.Join(rec.Cmdline, " "))
		for _, rule := range runtimeRules {
			if rule.matches(nameLower, cmd) {
				rule.apply(rec, cmd, &result)
				break
			}
		}
	}

	// Working directory under a user home broadens the classification
	// regardless of which rule matched.
	if inUserDirectory(rec.Cwd) {
		result.IsUserProcess = true
		if result.Category == models.CategorySystem {
			result.Category = models.CategoryUserProcess
		}
	}

	return result
}

// runtimeRule pairs a cheap predicate with its classifier. First match wins.
type runtimeRule struct {
	matches func(nameLower, cmd string) bool
	apply   func(rec models.ProcessRecord, cmd string, result *models.Classification)
}

var runtimeRules = []runtimeRule{
	{matchesRuntime("python"), classifyPython},
	{matchesRuntime("node"), classifyNode},
	{matchesRuntime("ruby"), classifyRuby},
	{matchesCmd("docker"), classifyDocker},
	{matchesCmd("git"), classifyGit},
	{matchesAnyCmd("postgres", "mysql", "mongodb", "redis"), classifyDatabase},
	{matchesAnyCmd("code", "vscode", "vim", "nvim", "emacs", "sublime", "atom"), classifyIDE},
}

func matchesRuntime(keyword string) func(string, string) bool {
	return func(nameLower, cmd string) bool {
		return strings.Contains(nameLower, keyword) || strings.Contains(cmd, keyword)
	}
}

func matchesCmd(keyword string) func(string, string) bool {
	return func(_, cmd string) bool {
		return strings.Contains(cmd, keyword)
	}
}

func matchesAnyCmd(keywords ...string) func(string, string) bool {
	return func(_, cmd string) bool {
		for _, keyword := range keywords {
			if strings.Contains(cmd, keyword) {
				return true
			}
		}
		return false
	}
}

func classifyPython(rec models.ProcessRecord, cmd string, result *models.Classification) {
	result.Category = models.CategoryPython
	result.IsUserProcess = true

	for _, arg := range rec.Cmdline {
		if !strings.HasSuffix(arg, ".py") {
			continue
		}
		scriptName := strings.TrimSuffix(filepath.Base(arg), ".py")
		result.AppName = scriptName
		context := directoryContext(rec.Cwd, scriptName)

		scriptLower := strings.ToLower(scriptName)
		switch {
		case strings.Contains(arg, "app.py"):
			result.Description = fmt.Sprintf("Flask/Web App: %s%s", scriptName, context)
		case strings.Contains(arg, "manage.py"):
			result.Description = fmt.Sprintf("Django App: %s%s", scriptName, context)
		case strings.Contains(arg, "setup.py"):
			result.Description = fmt.Sprintf("Python Setup: %s%s", scriptName, context)
		case strings.Contains(scriptLower, "server"):
			result.Description = fmt.Sprintf("Python Server: %s%s", scriptName, context)
		case strings.Contains(scriptLower, "api"):
			result.Description = fmt.Sprintf("API Server: %s%s", scriptName, context)
		case strings.Contains(scriptLower, "main"):
			result.Description = fmt.Sprintf("Main App: %s%s", scriptName, context)
		case strings.Contains(scriptLower, "test"):
			result.Description = fmt.Sprintf("Test Runner: %s%s", scriptName, context)
		case strings.Contains(scriptLower, "worker"):
			result.Description = fmt.Sprintf("Worker Process: %s%s", scriptName, context)
		default:
			if rel := userRelativePath(arg); rel != "" {
				result.Description = "Python: " + rel
			} else {
				result.Description = fmt.Sprintf("Python: %s%s", scriptName, context)
			}
		}
		break
	}

	// Module invocation: python -m <module>
	if module := moduleArg(rec.Cmdline); module != "" {
		result.AppName = module
		context := ""
		if project := filepath.Base(rec.Cwd); rec.Cwd != "" && project != "Users" && project != "home" && project != "" {
			context = " in " + project
		}
		if desc, ok := pythonModules[module]; ok {
			result.Description = desc + context
		} else {
			result.Description = fmt.Sprintf("Python Module: %s%s", module, context)
		}
	}

	if strings.Contains(cmd, "streamlit") {
		result.AppName = "Streamlit"
		result.Description = "Streamlit Application"
		for _, arg := range rec.Cmdline {
			if strings.HasSuffix(arg, ".py") && !strings.Contains(strings.ToLower(arg), "streamlit") {
				script := strings.TrimSuffix(filepath.Base(arg), ".py")
				result.Description = "Streamlit App: " + script
				break
			}
		}
	}

	if strings.Contains(cmd, ".venv") || strings.Contains(cmd, "virtualenv") || strings.Contains(cmd, "pipenv") {
		result.Description += " (Virtual Environment)"
	}
}

func classifyNode(rec models.ProcessRecord, cmd string, result *models.Classification) {
	result.Category = models.CategoryNode
	result.IsUserProcess = true

	context := nodeDirectoryContext(rec.Cwd)

	for _, arg := range rec.Cmdline {
		if !strings.HasSuffix(arg, ".js") && !strings.HasSuffix(arg, ".ts") {
			continue
		}
		scriptName := strings.TrimSuffix(strings.TrimSuffix(filepath.Base(arg), ".js"), ".ts")
		result.AppName = scriptName

		scriptLower := strings.ToLower(scriptName)
		switch {
		case strings.Contains(scriptLower, "server"):
			result.Description = fmt.Sprintf("Node Server: %s%s", scriptName, context)
		case strings.Contains(scriptLower, "index"):
			result.Description = fmt.Sprintf("Node App: %s%s", scriptName, context)
		case strings.Contains(scriptLower, "api"):
			result.Description = fmt.Sprintf("Node API: %s%s", scriptName, context)
		case strings.Contains(scriptLower, "worker"):
			result.Description = fmt.Sprintf("Node Worker: %s%s", scriptName, context)
		case pathContains(arg, "node_modules"):
			result.Description = fmt.Sprintf("Node Package: %s%s", scriptName, context)
		default:
			if rel := userRelativePath(arg); rel != "" {
				result.Description = "Node: " + rel
			} else {
				result.Description = fmt.Sprintf("Node: %s%s", scriptName, context)
			}
		}
		break
	}

	// npm run <script>
	if strings.Contains(cmd, "npm") && strings.Contains(cmd, "run") {
		rest := cmd[strings.Index(cmd, "run")+len("run"):]
		if fields := strings.Fields(rest); len(fields) > 0 {
			result.AppName = "npm:" + fields[0]
			result.Description = "NPM Script: " + fields[0]
		}
	}
}

func classifyRuby(rec models.ProcessRecord, cmd string, result *models.Classification) {
	result.Category = models.CategoryRuby
	result.IsUserProcess = true

	switch {
	case strings.Contains(cmd, "rails"):
		result.AppName = "Rails Server"
		result.Description = "Ruby on Rails Application"
	case strings.Contains(cmd, "bundle"):
		result.AppName = "Bundler"
		result.Description = "Ruby Bundler Process"
	default:
		for _, arg := range rec.Cmdline {
			if strings.HasSuffix(arg, ".rb") {
				scriptName := strings.TrimSuffix(filepath.Base(arg), ".rb")
				result.AppName = scriptName
				result.Description = "Ruby Script: " + scriptName
				break
			}
		}
	}
}

func classifyDocker(rec models.ProcessRecord, cmd string, result *models.Classification) {
	result.Category = models.CategoryContainer
	result.IsUserProcess = true
	result.AppName = "Docker"

	if !strings.Contains(cmd, "run") {
		return
	}
	parts := strings.Fields(cmd)
	for i, part := range parts {
		if part != "run" {
			continue
		}
		for _, candidate := range parts[i+1:] {
			if strings.HasPrefix(candidate, "-") {
				continue
			}
			// Strip registry path and tag from the image reference.
			image := candidate[strings.LastIndex(candidate, "/")+1:]
			if colon := strings.Index(image, ":"); colon >= 0 {
				image = image[:colon]
			}
			result.AppName = "Docker: " + image
			result.Description = "Docker Container: " + image
			break
		}
	}
}

func classifyGit(_ models.ProcessRecord, cmd string, result *models.Classification) {
	result.Category = models.CategoryVersionCtrl
	result.IsUserProcess = true
	result.AppName = "Git"
	result.Description = "Git Operation"

	for _, op := range gitOperations {
		if strings.Contains(cmd, op) {
			result.Description = fmt.Sprintf("Git: %s operation", op)
			break
		}
	}
}

func classifyDatabase(_ models.ProcessRecord, cmd string, result *models.Classification) {
	result.Category = models.CategoryDatabase
	result.IsUserProcess = true

	switch {
	case strings.Contains(cmd, "postgres"):
		result.AppName = "PostgreSQL"
		result.Description = "PostgreSQL Database Process"
	case strings.Contains(cmd, "mysql"):
		result.AppName = "MySQL"
		result.Description = "MySQL Database Process"
	case strings.Contains(cmd, "mongodb") || strings.Contains(cmd, "mongod"):
		result.AppName = "MongoDB"
		result.Description = "MongoDB Database Process"
	case strings.Contains(cmd, "redis"):
		result.AppName = "Redis"
		result.Description = "Redis Server Process"
	}
}

func classifyIDE(_ models.ProcessRecord, cmd string, result *models.Classification) {
	result.Category = models.CategoryIDE
	result.IsUserProcess = true

	switch {
	case strings.Contains(cmd, "code") || strings.Contains(cmd, "vscode"):
		result.AppName = "VS Code"
		result.Description = "Visual Studio Code"
	case strings.Contains(cmd, "vim"):
		result.AppName = "Vim"
		result.Description = "Vim Text Editor"
	case strings.Contains(cmd, "nvim"):
		result.AppName = "Neovim"
		result.Description = "Neovim Text Editor"
	case strings.Contains(cmd, "emacs"):
		result.AppName = "Emacs"
		result.Description = "Emacs Text Editor"
	}
}

// moduleArg returns the module following a -m flag, or "".
func moduleArg(cmdline []string) string {
	for i, arg := range cmdline {
		if arg == "-m" && i+1 < len(cmdline) {
			return cmdline[i+1]
		}
	}
	return ""
}

// directoryContext derives a " (project)" suffix from the working
// directory, falling back to the parent directory when the base name
// duplicates the script name.
func directoryContext(cwd, scriptName string) string {
	if cwd == "" {
		return ""
	}
	project := filepath.Base(cwd)
	if project != "" && project != "." && project != scriptName {
		return " (" + project + ")"
	}
	parent := filepath.Base(filepath.Dir(cwd))
	if parent != "" && parent != "." && parent != "Users" && parent != "home" {
		return " (" + parent + ")"
	}
	return ""
}

// nodeDirectoryContext is the Node variant: generic directory names
// (node, src, dist) defer to the parent directory.
func nodeDirectoryContext(cwd string) string {
	if cwd == "" {
		return ""
	}
	project := filepath.Base(cwd)
	if project == "" || project == "." || project == "node" || project == "src" || project == "dist" {
		project = filepath.Base(filepath.Dir(cwd))
	}
	if project == "" || project == "." || project == "Users" || project == "home" {
		return ""
	}
	return " (" + project + ")"
}

// userRelativePath shortens a script path under a user home to its
// portion starting at a well-known folder (Documents, GitHub, Projects).
func userRelativePath(path string) string {
	if !strings.Contains(path, "/Users/") && !strings.Contains(path, "/home/") {
		return ""
	}
	parts := strings.Split(path, "/")
	for _, folder := range []string{"Documents", "GitHub", "Projects"} {
		for i, part := range parts {
			if part == folder {
				return strings.Join(parts[i:], "/")
			}
		}
	}
	return ""
}

func pathContains(path, segment string) bool {
	for _, part := range strings.Split(path, "/") {
		if part == segment {
			return true
		}
	}
	return false
}

func inUserDirectory(cwd string) bool {
	return cwd != "" && (strings.Contains(cwd, "/Users/") || strings.Contains(cwd, "/home/"))
}

func titleCase(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}
