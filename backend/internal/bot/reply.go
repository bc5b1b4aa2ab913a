package bot

import (
	"fmt"
	"strings"

	"sous-chef/backend/internal/graph"
	"sous-chef/backend/internal/recipes"
)

// listItem is one line of a displayed recipe list. RecommendedUserCount is
// zero for plain cached matches and positive for recommended entries.
type listItem struct {
	graph.RecipeRef
	RecommendedUserCount int
}

// mergeMatches builds the displayed list: recommended recipes first, then
// the cached catalog matches, skipping any recipe id already included,
// until the list reaches limit entries.
func mergeMatches(recommendations []graph.Recommendation, cached []graph.RecipeRef, limit int) []listItem {
	items := []listItem{}
	seen := make(map[string]bool, limit)

	for _, rec := range recommendations {
		if len(items) >= limit {
			break
		}
		if seen[rec.ID] {
			continue
		}
		seen[rec.ID] = true
		items = append(items, listItem{
			RecipeRef:            graph.RecipeRef{ID: rec.ID, Title: rec.Title},
			RecommendedUserCount: rec.RecommendedUserCount,
		})
	}

	for _, ref := range cached {
		if len(items) >= limit {
			break
		}
		if seen[ref.ID] {
			continue
		}
		seen[ref.ID] = true
		items = append(items, listItem{RecipeRef: ref})
	}

	return items
}

// formatRecipeList renders the numbered choice list shown after a
// favorites, ingredient or cuisine turn.
func formatRecipeList(items []listItem) string {
	var b strings.Builder
	b.WriteString("Let's see here...\nI've found these recipes: \n")
	for i, item := range items {
		b.WriteString(fmt.Sprintf("%d.%s", i+1, item.Title))
		if item.RecommendedUserCount > 0 {
			b.WriteString(fmt.Sprintf(" (%s)", recommendedTag(item.RecommendedUserCount)))
		}
		b.WriteString("\n")
	}
	b.WriteString("\nPlease enter the corresponding number of your choice.")
	return b.String()
}

func recommendedTag(userCount int) string {
	if userCount == 1 {
		return "recommended by 1 person"
	}
	return fmt.Sprintf("recommended by %d people", userCount)
}

// formatSteps renders the step-by-step instructions stored on a recipe
// vertex and replayed on every later selection of the same recipe.
func formatSteps(info *recipes.Info, steps []recipes.Step) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Ok, it takes **%d** minutes to make **%d** servings of **%s**. Here are the steps:\n\n",
		info.ReadyInMinutes, info.Servings, info.Title))

	if len(steps) == 0 {
		b.WriteString("*No instructions available for this recipe.*\n\n")
	} else {
		for i, step := range steps {
			names := make([]string, 0, len(step.Equipment))
			for _, e := range step.Equipment {
				names = append(names, e.Name)
			}
			equipment := "None"
			if len(names) > 0 {
				equipment = strings.Join(names, ",")
			}
			b.WriteString(fmt.Sprintf("**Step %d**:\n", i+1))
			b.WriteString(fmt.Sprintf("*Equipment*: %s\n", equipment))
			b.WriteString(fmt.Sprintf("*Action*: %s\n\n", step.Step))
		}
	}

	b.WriteString("**Say anything to me to start over...**")
	return b.String()
}
