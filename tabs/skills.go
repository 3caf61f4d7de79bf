package tabs

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/regionhub/core"
	"github.com/jask/regionhub/internal/api"
	"github.com/jask/regionhub/internal/screen"
	"github.com/jask/regionhub/internal/store"
	"github.com/jask/regionhub/widgets"
)

// LoginPath is where actions needing a session send signed-out users.
const LoginPath = "/auth/login"

type SkillsTab struct {
	*controlled[[]api.Course]
	cursor int
}

func NewSkillsTab(deps Deps) *SkillsTab {
	t := &SkillsTab{}
	t.controlled = newControlled("skills", "Digital Skills Training", deps, api.CoursesResource(), t.compose)
	return t
}

func (t *SkillsTab) Update(m *core.Model, msg tea.Msg) tea.Cmd {
	if handled, cmd := t.update(m, msg); handled {
		return cmd
	}
	switch msg := msg.(type) {
	case core.SliceChangedMsg:
		return t.enrollmentChanged(msg.Key)
	case tea.KeyMsg:
		courses, ready := t.ctrl.Slice().Data()
		if !ready {
			return nil
		}
		keys := m.Keys()
		switch {
		case keys.IsAction(msg, "cursor-down", t.Scope()):
			t.cursor = clamp(t.cursor+1, 0, len(courses)-1)
		case keys.IsAction(msg, "cursor-up", t.Scope()):
			t.cursor = clamp(t.cursor-1, 0, len(courses)-1)
		case keys.IsAction(msg, "enroll", t.Scope()):
			return t.enroll(m, courses)
		}
	}
	return nil
}

// enroll registers for the selected course. Signed-out users are sent to the
// login screen instead.
func (t *SkillsTab) enroll(m *core.Model, courses []api.Course) tea.Cmd {
	if len(courses) == 0 {
		return nil
	}
	if m.Authenticated == nil || !m.Authenticated() {
		return tea.Batch(core.StatusCmd("Log in to register for a course"), core.NavigateCmd(LoginPath))
	}
	course := courses[clamp(t.cursor, 0, len(courses)-1)]
	if course.Enrolled {
		return core.StatusCmd("Already registered for " + course.Title)
	}
	return t.deps.Dispatcher.Fetch(t.ctrl.Lease(), api.EnrollResource(course.ID))
}

func (t *SkillsTab) enrollment() store.Slice[api.Enrollment] {
	return store.Select[api.Enrollment](t.deps.Dispatcher.Store(), api.KeyEnrollment)
}

// enrollmentChanged reloads the course list once a registration succeeds so
// the enrolled flag comes from the server.
func (t *SkillsTab) enrollmentChanged(key store.Key) tea.Cmd {
	if key != api.KeyEnrollment || !t.ctrl.Mounted() {
		return nil
	}
	s := t.enrollment()
	switch {
	case s.IsReady():
		e, _ := s.Data()
		return tea.Batch(core.StatusCmd(fmt.Sprintf("Registered for course %d (%s)", e.CourseID, e.Status)), t.ctrl.Refresh())
	case s.IsError():
		return core.ErrorCmd(s.Err())
	}
	return nil
}

func (t *SkillsTab) compose(courses []api.Course, width, height int) string {
	items := make([]string, 0, len(courses))
	for _, c := range courses {
		label := c.Title
		if c.Enrolled {
			label += "  [registered]"
		}
		items = append(items, label)
	}
	cursor := clamp(t.cursor, 0, len(courses)-1)

	var details strings.Builder
	if len(courses) > 0 {
		c := courses[cursor]
		fmt.Fprintf(&details, "%s\n\nInstructor: %s\nDuration: %s\n\n%s", c.Title, c.Instructor, c.Duration, c.Description)
	}
	switch s := t.enrollment(); {
	case s.IsLoading():
		details.WriteString("\n\nRegistering…")
	case s.IsError():
		details.WriteString("\n\n" + screen.ErrorView(s.Err()))
	}

	return widgets.HStack{
		Widgets: []widgets.Widget{
			t.pane("courses", widgets.Pane{
				Title:    "Courses",
				Selected: true,
				Body:     widgets.List{Items: items, Cursor: cursor, Empty: "No courses available."},
			}),
			t.pane("details", widgets.Pane{Title: "Course Details", Content: details.String()}),
		},
		Ratios: []float64{0.4, 0.6},
		Gap:    1,
	}.Render(width, height)
}
