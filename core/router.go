package core

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Route maps a path pattern to a tab and an optional screen. Pattern segments
// written as {name} capture the matching path segment into Params.
type Route struct {
	Pattern      string
	Tab          string
	Screen       func(m *Model, params map[string]string) Screen
	RequiresAuth bool
	// RedirectTo, when set, sends every visit to another path.
	RedirectTo string
	// AuthRedirect is where unauthenticated visits to a guarded route go.
	AuthRedirect string
}

type Match struct {
	Route      Route
	Path       string
	Params     map[string]string
	Redirected bool
}

// RouteError reports a path with no matching route.
type RouteError struct {
	Path       string
	Suggestion string
}

func (e *RouteError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("No page at %s. Did you mean %s?", e.Path, e.Suggestion)
	}
	return "No page at " + e.Path
}

const maxRedirects = 8

type Router struct {
	routes   []Route
	fallback string
}

// NewRouter builds a router. fallback is the path used for "/" and by Init when
// no start path is configured.
func NewRouter(fallback string, routes ...Route) *Router {
	return &Router{routes: routes, fallback: fallback}
}

func (r *Router) Fallback() string { return r.fallback }

func (r *Router) Routes() []Route { return r.routes }

// PathForTab returns the first plain route pattern showing tab without a screen.
func (r *Router) PathForTab(tab string) string {
	for _, rt := range r.routes {
		if rt.Tab == tab && rt.Screen == nil && rt.RedirectTo == "" && !strings.Contains(rt.Pattern, "{") {
			return rt.Pattern
		}
	}
	return ""
}

// Resolve matches path, following redirects and auth guards.
func (r *Router) Resolve(path string, authenticated bool) (Match, error) {
	redirected := false
	for hop := 0; hop <= maxRedirects; hop++ {
		path = cleanPath(path)
		if path == "/" && r.fallback != "" && r.fallback != "/" {
			path = r.fallback
			redirected = true
			continue
		}
		route, params, ok := r.match(path)
		if !ok {
			return Match{}, &RouteError{Path: path, Suggestion: r.suggest(path)}
		}
		switch {
		case route.RedirectTo != "":
			path = route.RedirectTo
			redirected = true
		case route.RequiresAuth && !authenticated && route.AuthRedirect != "":
			path = route.AuthRedirect
			redirected = true
		default:
			return Match{Route: route, Path: path, Params: params, Redirected: redirected}, nil
		}
	}
	return Match{}, fmt.Errorf("too many redirects resolving %s", path)
}

func (r *Router) match(path string) (Route, map[string]string, bool) {
	segs := splitPath(path)
	for _, rt := range r.routes {
		pat := splitPath(rt.Pattern)
		if len(pat) != len(segs) {
			continue
		}
		params := map[string]string{}
		ok := true
		for i, p := range pat {
			if strings.HasPrefix(p, "{") && strings.HasSuffix(p, "}") {
				if segs[i] == "" {
					ok = false
					break
				}
				params[strings.Trim(p, "{}")] = segs[i]
				continue
			}
			if p != segs[i] {
				ok = false
				break
			}
		}
		if ok {
			return rt, params, true
		}
	}
	return Route{}, nil, false
}

func (r *Router) suggest(path string) string {
	best, bestDist := "", 0
	for _, rt := range r.routes {
		if strings.Contains(rt.Pattern, "{") {
			continue
		}
		d := levenshtein.ComputeDistance(path, rt.Pattern)
		if best == "" || d < bestDist {
			best, bestDist = rt.Pattern, d
		}
	}
	if best == "" || bestDist > max(3, len(best)/3) {
		return ""
	}
	return best
}

func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	p = strings.TrimRight(p, "/")
	if p == "" {
		return "/"
	}
	return p
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

type ScreenStack struct {
	items []Screen
}

func (s *ScreenStack) Push(screen Screen) {
	if screen == nil {
		return
	}
	s.items = append(s.items, screen)
}

func (s *ScreenStack) Pop() Screen {
	if len(s.items) == 0 {
		return nil
	}
	last := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return last
}

func (s ScreenStack) Top() Screen {
	if len(s.items) == 0 {
		return nil
	}
	return s.items[len(s.items)-1]
}

func (s *ScreenStack) ReplaceTop(screen Screen) {
	if len(s.items) == 0 || screen == nil {
		return
	}
	s.items[len(s.items)-1] = screen
}

func (s ScreenStack) Len() int {
	return len(s.items)
}
