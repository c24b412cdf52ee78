package skills

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

const (
	// SkillsShURL is the skills.sh search page; the query is appended.
	SkillsShURL = "https://skills.sh/?q="
	// AwesomeURL is the awesome-agent-skills README.
	AwesomeURL = "https://raw.githubusercontent.com/heilcheng/awesome-agent-skills/main/README.md"

	skillsShTimeout = 20 * time.Second
	awesomeTimeout  = 10 * time.Second
	maxBody         = 4 << 20
)

var (
	skillsShRe = regexp.MustCompile(`https://skills\.sh/([A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+)`)
	awesomeRe  = regexp.MustCompile(`\|\s*\[([^\]]+)\]\(([^)]+)\)\s*\|\s*([^|]+)\s*\|`)
)

// HTTPClient is an interface for HTTP operations to allow mocking in tests.
type HTTPClient interface {
	Get(url string) (*http.Response, error)
}

// Entry is one remote catalog hit.
type Entry struct {
	Skill       string `json:"skill"`
	Repo        string `json:"repo"`
	URL         string `json:"url"`
	Install     string `json:"install"`
	Description string `json:"description"`
}

// SearchResult is the outcome of Catalog.Search.
type SearchResult struct {
	Query   string   `json:"query"`
	Results []Entry  `json:"results"`
	Warning string   `json:"warning,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// Catalog searches skills.sh and the awesome-agent-skills list.
type Catalog struct {
	Limit int

	skillsSh   HTTPClient
	awesome    HTTPClient
	skillsURL  string
	awesomeURL string
}

// NewCatalog returns a catalog with bounded request timeouts.
func NewCatalog() *Catalog {
	return &Catalog{
		Limit:      5,
		skillsSh:   &http.Client{Timeout: skillsShTimeout},
		awesome:    &http.Client{Timeout: awesomeTimeout},
		skillsURL:  SkillsShURL,
		awesomeURL: AwesomeURL,
	}
}

// SetHTTPClient sets the client used for both sources (useful for testing).
func (c *Catalog) SetHTTPClient(client HTTPClient) {
	c.skillsSh, c.awesome = client, client
}

// Search queries both sources. A failing source is reported in Errors and
// does not hide the other's results.
func (c *Catalog) Search(query string) SearchResult {
	res := SearchResult{Query: query, Results: []Entry{}}
	q := strings.TrimSpace(query)
	if q == "" {
		res.Warning = "Empty query"
		return res
	}

	if body, err := fetch(c.skillsSh, c.skillsURL+url.QueryEscape(q)); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("Failed to fetch skills.sh: %v", err))
	} else {
		res.Results = append(res.Results, parseSkillsSh(body, c.Limit)...)
	}
	if body, err := fetch(c.awesome, c.awesomeURL); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("Failed to fetch awesome-agent-skills: %v", err))
	} else {
		res.Results = append(res.Results, parseAwesome(body, q, c.Limit)...)
	}

	if len(res.Results) == 0 {
		res.Warning = "No results parsed. Try another query or use npx skills find."
	}
	return res
}

func fetch(client HTTPClient, u string) (string, error) {
	resp, err := client.Get(u)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func parseSkillsSh(html string, limit int) []Entry {
	var out []Entry
	seen := map[string]bool{}
	for _, m := range skillsShRe.FindAllStringSubmatch(html, -1) {
		path := m[1]
		if seen[path] {
			continue
		}
		seen[path] = true
		parts := strings.Split(path, "/")
		repo, skill := parts[0]+"/"+parts[1], parts[2]
		out = append(out, Entry{
			Skill:       skill,
			Repo:        repo,
			URL:         "https://skills.sh/" + path,
			Install:     fmt.Sprintf("npx skills add %s@%s", repo, skill),
			Description: "From skills.sh catalog",
		})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

func parseAwesome(readme, query string, limit int) []Entry {
	var out []Entry
	q := strings.ToLower(query)
	for _, m := range awesomeRe.FindAllStringSubmatch(readme, -1) {
		name, link, desc := strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), strings.TrimSpace(m[3])
		if !strings.Contains(strings.ToLower(name+" "+desc), q) {
			continue
		}
		install := "Manual install required"
		if strings.Contains(link, "github.com") {
			install = "npx skills add " + link
		}
		out = append(out, Entry{Skill: name, Repo: "awesome-list", URL: link, Install: install, Description: desc})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// NPXStatus reports whether the skills CLI can run.
type NPXStatus struct {
	Node      string `json:"node,omitempty"`
	NPX       string `json:"npx,omitempty"`
	Available bool   `json:"available"`
	Note      string `json:"note,omitempty"`
}

var lookPath = exec.LookPath

// CheckNPX looks for node and npx on PATH.
func CheckNPX() NPXStatus {
	var s NPXStatus
	s.Node, _ = lookPath("node")
	s.NPX, _ = lookPath("npx")
	s.Available = s.Node != "" && s.NPX != ""
	if !s.Available {
		s.Note = "Node.js and npx are required for skills CLI"
	}
	return s
}
