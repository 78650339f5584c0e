package catalog

import (
	"fmt"

	"github.com/julianstephens/askeza/internal/cli"
)

type CourseListCmd struct{}

func (c *CourseListCmd) Run(ctx *cli.Context) error {
	courses, err := ctx.Templates.Courses()
	if err != nil {
		return fmt.Errorf("failed to list courses: %w", err)
	}
	if len(courses) == 0 {
		ctx.Println("No courses found.")
		return nil
	}
	for _, course := range courses {
		status, err := ctx.Tracker.CourseStatus(course.ID)
		if err != nil {
			return err
		}
		done := len(status.Steps)
		if status.Next != nil {
			for i, s := range status.Steps {
				if s.TemplateKey == status.Next.TemplateKey {
					done = i
					break
				}
			}
		}
		ctx.Printf("%-20s %s  %s %d/%d\n", course.ID, cli.TitleStyle.Render(course.Title),
			cli.ProgressBar(done, len(status.Steps)), done, len(status.Steps))
	}
	return nil
}

type CourseShowCmd struct {
	ID string `arg:"" help:"Course id."`
}

func (c *CourseShowCmd) Run(ctx *cli.Context) error {
	status, err := ctx.Tracker.CourseStatus(c.ID)
	if err != nil {
		return err
	}

	ctx.Println(cli.TitleStyle.Render(status.Course.Title))
	if status.Course.Description != "" {
		ctx.Println("  " + status.Course.Description)
	}
	for i, step := range status.Steps {
		title := step.TemplateKey
		if step.Template != nil {
			title = step.Template.Title
		}
		marker := " "
		if status.Next != nil && status.Next.TemplateKey == step.TemplateKey {
			marker = "→"
		}
		ctx.Printf("%s %d. %s  %s\n", marker, i+1, title, cli.StatusBadge(step.Status))
	}
	if status.Done() {
		ctx.Printf("%s Course complete\n", cli.SuccessStyle.Render("✓"))
	}
	return nil
}

type RecommendCmd struct {
	Limit int `help:"Number of suggestions." default:"3"`
}

func (c *RecommendCmd) Run(ctx *cli.Context) error {
	picks, err := ctx.Tracker.Recommend(c.Limit)
	if err != nil {
		return err
	}
	if len(picks) == 0 {
		ctx.Println("Nothing left to recommend, every template has been started.")
		return nil
	}
	ctx.Println(cli.HeaderStyle.Render("Try next"))
	for _, t := range picks {
		ctx.Printf("  %-22s %-11s %s  %s\n", t.TemplateKey, t.Category, difficultyStars(t.Difficulty), cli.TitleStyle.Render(t.Title))
	}
	return nil
}
