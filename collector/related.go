package collector

import (
	"strings"

	"procview/models"
)

// workerKeywords mark a child python process as a background worker.
var workerKeywords = []string{"worker", "celery", "rq", "huey"}

// FindRelated scans the candidate roster for processes that belong to
// the same logical unit as the subject: package managers and tooling
// sharing its working directory, and worker children. The subject
// itself is always excluded. The first matching heuristic per candidate
// wins; candidates matching none are omitted.
func FindRelated(subject models.ClassifiedProcess, candidates []models.ProcessRecord) []models.RelatedProcess {
	var related []models.RelatedProcess

	for _, cand := range candidates {
		if cand.PID == subject.PID {
			continue
		}

		nameLower := strings.ToLower(cand.Name)
		cmd := strings.ToLower(strings.Join(cand.Cmdline, " "))
		isChild := cand.ParentPID != 0 && cand.ParentPID == subject.PID
		sameCwd := subject.Cwd != "" && cand.Cwd == subject.Cwd

		var relatedType string
		switch {
		case strings.Contains(nameLower, "uv") && sameCwd:
			relatedType = "Package Manager (UV)"
		case (strings.Contains(cmd, ".venv") || strings.Contains(cmd, "virtualenv") || strings.Contains(cmd, "pipenv")) && sameCwd:
			relatedType = "Virtual Environment"
		case strings.Contains(cmd, "npm") && (strings.Contains(cmd, "run") || strings.Contains(cmd, "dev")) && sameCwd:
			relatedType = "NPM Script"
		case (strings.Contains(nameLower, "yarn") || strings.Contains(nameLower, "pnpm")) && sameCwd:
			relatedType = "Package Manager (" + strings.ToUpper(cand.Name) + ")"
		case strings.Contains(cmd, "webpack") && sameCwd:
			relatedType = "Bundler (Webpack)"
		case strings.Contains(cmd, "vite") && sameCwd:
			relatedType = "Bundler (Vite)"
		case strings.Contains(cmd, "esbuild") && sameCwd:
			relatedType = "Bundler (esbuild)"
		case strings.Contains(cmd, "nodemon") && sameCwd:
			relatedType = "Auto-restart (Nodemon)"
		case isChild && strings.Contains(nameLower, "python") && containsAny(cmd, workerKeywords):
			relatedType = "Worker Process"
		case isChild && (strings.Contains(cmd, "gunicorn") || strings.Contains(cmd, "uvicorn")):
			relatedType = "Web Server Worker"
		}

		if relatedType == "" {
			continue
		}

		cmdline := cand.Cmdline
		if len(cmdline) > 3 {
			cmdline = cmdline[:3]
		}
		related = append(related, models.RelatedProcess{
			PID:        cand.PID,
			Name:       cand.Name,
			Type:       relatedType,
			CPUPercent: cand.CPUPercent,
			MemoryMB:   cand.MemoryMB,
			Cmdline:    cmdline,
		})
	}

	return related
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}
