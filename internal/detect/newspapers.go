// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package detect

import (
	"net/url"
	"sort"
	"strings"
)

// newspaperHosts maps news site hosts to publication names.
var newspaperHosts = map[string]string{
	"nytimes.com":         "The New York Times",
	"washingtonpost.com":  "The Washington Post",
	"wsj.com":             "The Wall Street Journal",
	"theatlantic.com":     "The Atlantic",
	"newyorker.com":       "The New Yorker",
	"politico.com":        "Politico",
	"reuters.com":         "Reuters",
	"apnews.com":          "Associated Press",
	"bloomberg.com":       "Bloomberg",
	"forbes.com":          "Forbes",
	"time.com":            "Time",
	"newsweek.com":        "Newsweek",
	"vox.com":             "Vox",
	"wired.com":           "Wired",
	"cnn.com":             "CNN",
	"nbcnews.com":         "NBC News",
	"cbsnews.com":         "CBS News",
	"abcnews.go.com":      "ABC News",
	"latimes.com":         "Los Angeles Times",
	"chicagotribune.com":  "Chicago Tribune",
	"bostonglobe.com":     "The Boston Globe",
	"usatoday.com":        "USA Today",
	"sfchronicle.com":     "San Francisco Chronicle",
	"seattletimes.com":    "The Seattle Times",
	"inquirer.com":        "The Philadelphia Inquirer",
	"thehill.com":         "The Hill",
	"axios.com":           "Axios",
	"propublica.org":      "ProPublica",
	"theguardian.com":     "The Guardian",
	"bbc.com":             "BBC News",
	"bbc.co.uk":           "BBC News",
	"telegraph.co.uk":     "The Telegraph",
	"independent.co.uk":   "The Independent",
	"ft.com":              "Financial Times",
	"economist.com":       "The Economist",
	"thetimes.co.uk":      "The Times",
	"newstatesman.com":    "New Statesman",
	"spectator.co.uk":     "The Spectator",
	"scotsman.com":        "The Scotsman",
	"irishtimes.com":      "The Irish Times",
	"theglobeandmail.com": "The Globe and Mail",
	"thestar.com":         "Toronto Star",
	"cbc.ca":              "CBC News",
	"smh.com.au":          "The Sydney Morning Herald",
	"abc.net.au":          "ABC News (Australia)",
	"aljazeera.com":       "Al Jazeera",
	"lemonde.fr":          "Le Monde",
	"spiegel.de":          "Der Spiegel",
}

// newspaperKeys holds the table keys, longest first, so "abcnews.go.com"
// wins over shorter suffixes.
var newspaperKeys = func() []string {
	keys := make([]string, 0, len(newspaperHosts))
	for k := range newspaperHosts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// NewspaperName returns the publication name for a URL or bare host.
func NewspaperName(rawURL string) (string, bool) {
	host := hostOf(rawURL)
	if host == "" {
		return "", false
	}
	for _, k := range newspaperKeys {
		if host == k || strings.HasSuffix(host, "."+k) {
			return newspaperHosts[k], true
		}
	}
	return "", false
}

func hostOf(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
