package tracker

import (
	"github.com/julianstephens/askeza/internal/models"
)

type CourseStep struct {
	TemplateKey string
	Template    *models.PracticeTemplate
	Status      models.TemplateStatus
}

type CourseProgress struct {
	Course models.CoursePath
	Steps  []CourseStep
	// Next is the first step not yet completed or mastered, nil once the course is done.
	Next *CourseStep
}

// Done reports whether every step is completed or mastered.
func (c CourseProgress) Done() bool {
	return c.Next == nil
}

// CourseStatus reports the status of each step of a course in order.
// Steps whose template is missing from the catalog are reported as not started.
func (t *Tracker) CourseStatus(courseID string) (CourseProgress, error) {
	course, err := t.templates.Course(courseID)
	if err != nil {
		return CourseProgress{}, err
	}
	views, err := t.Overview()
	if err != nil {
		return CourseProgress{}, err
	}
	byKey := make(map[string]TemplateView, len(views))
	for _, v := range views {
		byKey[v.Template.TemplateKey] = v
	}

	cp := CourseProgress{Course: course, Steps: make([]CourseStep, 0, len(course.TemplateKeys))}
	for _, key := range course.TemplateKeys {
		step := CourseStep{TemplateKey: key, Status: models.StatusNotStarted}
		if v, ok := byKey[key]; ok {
			tmpl := v.Template
			step.Template = &tmpl
			step.Status = v.Status
		}
		cp.Steps = append(cp.Steps, step)
	}
	for i := range cp.Steps {
		s := cp.Steps[i].Status
		if s != models.StatusCompleted && s != models.StatusMastered {
			cp.Next = &cp.Steps[i]
			break
		}
	}
	return cp, nil
}
