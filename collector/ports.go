package collector

import "sort"

// commonWebPorts are the well-known web/app development ports that are
// always worth surfacing.
var commonWebPorts = map[int]bool{
	80: true, 443: true, // standard HTTP/HTTPS
	3000: true, 3001: true, 3002: true, 3003: true, 3004: true, 3005: true, // React/Node
	4000: true, 4001: true, 4200: true, // Angular, Phoenix
	5000: true, 5001: true, 5173: true, 5174: true, 5555: true, 5556: true, // Flask, Vite
	8000: true, 8001: true, 8080: true, 8081: true, 8888: true, // Django, general web
	8501: true, 8502: true, 8503: true, // Streamlit
	9000: true, 9001: true, 9090: true,
	7860: true, 7861: true, // Gradio
}

// webPortRanges cover ports that are likely dev servers even when not
// in the curated list.
var webPortRanges = [][2]int{
	{3000, 3010}, {4000, 4010}, {5000, 5010},
	{7860, 7870}, {8000, 8100}, {8500, 8510}, {9000, 9100},
}

// filterWebPorts keeps only ports a browser would plausibly be pointed
// at, excluding the ephemeral range, sorted so the main server port
// appears first.
func filterWebPorts(ports []int) []int {
	seen := make(map[int]bool)
	out := []int{}
	for _, port := range ports {
		if seen[port] {
			continue
		}
		if commonWebPorts[port] {
			seen[port] = true
			out = append(out, port)
			continue
		}
		if inWebRange(port) && port < 49000 {
			seen[port] = true
			out = append(out, port)
		}
	}
	sort.Ints(out)
	return out
}

func inWebRange(port int) bool {
	for _, r := range webPortRanges {
		if port >= r[0] && port <= r[1] {
			return true
		}
	}
	return false
}
