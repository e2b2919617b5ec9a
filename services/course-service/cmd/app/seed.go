package main

import (
	"github.com/waste3d/courseplatform-api/services/course-service/internal/application/usecase"
	"github.com/waste3d/courseplatform-api/services/course-service/internal/domain"
)

func defaultCourses() []usecase.CreateCourseInput {
	return []usecase.CreateCourseInput{
		{
			Title:       "Fullstack Python Developer",
			Description: "Web applications with Python, Django and Vue.js, from the basics to deployment.",
			Category:    "Programming",
			CoverURL:    "https://images.unsplash.com/photo-1526379095098-d400fd0bf935?auto=format&fit=crop&w=800&q=80",
			Skills:      []string{"python", "django", "vue"},
			Modules: []domain.Module{
				{Title: "Python basics", Lessons: []domain.Lesson{
					{Title: "Syntax and types"}, {Title: "Functions"}, {Title: "Modules and packages"},
				}},
				{Title: "Django", Lessons: []domain.Lesson{
					{Title: "Models"}, {Title: "Views"}, {Title: "REST API"},
				}},
				{Title: "Deploy", Lessons: []domain.Lesson{
					{Title: "Docker"}, {Title: "CI"},
				}},
			},
		},
		{
			Title:       "UX/UI Design from Scratch",
			Description: "Build clear and good-looking interfaces in Figma.",
			Category:    "Design",
			CoverURL:    "https://images.unsplash.com/photo-1561070791-2526d30994b5?auto=format&fit=crop&w=800&q=80",
			Skills:      []string{"figma", "ux-research"},
			Modules: []domain.Module{
				{Title: "Foundations", Lessons: []domain.Lesson{
					{Title: "Grids"}, {Title: "Typography"}, {Title: "Color"},
				}},
				{Title: "Prototyping", Lessons: []domain.Lesson{
					{Title: "Components"}, {Title: "Interactive prototypes"},
				}},
			},
		},
	}
}
