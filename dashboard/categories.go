// Copyright 2026 Telic Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dashboard

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/telic/vidsem/core"
)

// AnySubcategory is the wildcard subcategory: no title/description filtering.
const AnySubcategory = "Any"

// Category is one browsable corpus slice with optional named subcategories.
type Category struct {
	Name          string   `yaml:"name"`
	Subcategories []string `yaml:"subcategories,omitempty"`
}

// Categories is the dashboard's category configuration, loaded from YAML or
// falling back to a built-in set. Order is display order.
type Categories struct {
	Categories []Category `yaml:"categories"`
}

// DefaultCategories returns the built-in category set used when no
// configuration file is given.
func DefaultCategories() Categories {
	return Categories{Categories: []Category{
		{Name: "Speeches of politicians", Subcategories: []string{"Donald Trump", "Vladimir Putin", "Xi Jinping"}},
		{Name: "Movies"},
		{Name: "News clips"},
		{Name: "Music clips"},
		{Name: "Sport clips"},
	}}
}

// LoadCategories reads a category configuration from a YAML file.
func LoadCategories(path string) (Categories, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Categories{}, fmt.Errorf("reading category config: %w", err)
	}

	var categories Categories
	if err := yaml.Unmarshal(data, &categories); err != nil {
		return Categories{}, fmt.Errorf("parsing category config: %w", err)
	}
	if len(categories.Categories) == 0 {
		return Categories{}, fmt.Errorf("category config %s defines no categories", path)
	}
	return categories, nil
}

// Options returns the selectable subcategories for a main category, always
// starting with the wildcard. An unknown category yields just the wildcard.
func (c Categories) Options(name string) []string {
	for _, category := range c.Categories {
		if category.Name == name {
			return append([]string{AnySubcategory}, category.Subcategories...)
		}
	}
	return []string{AnySubcategory}
}

// Valid reports whether the main/sub pair is a known selection.
func (c Categories) Valid(main, sub string) bool {
	for _, category := range c.Categories {
		if category.Name != main {
			continue
		}
		if sub == AnySubcategory || sub == "" {
			return true
		}
		for _, s := range category.Subcategories {
			if s == sub {
				return true
			}
		}
		return false
	}
	return false
}

// FilterGroups keeps the video groups whose title or description mentions
// term, case-insensitively, preserving order. Title and description are
// video-level fields, so filtering whole groups is equivalent to filtering
// their segments. The wildcard and the empty term keep everything.
func FilterGroups(results *core.GroupedResults, term string) *core.GroupedResults {
	if term == "" || term == AnySubcategory {
		return results
	}

	needle := strings.ToLower(term)
	filtered := &core.GroupedResults{}
	for _, group := range results.Groups {
		title := strings.ToLower(group.Metadata.Title)
		description := strings.ToLower(group.Metadata.Description)
		if strings.Contains(title, needle) || strings.Contains(description, needle) {
			filtered.Groups = append(filtered.Groups, group)
		}
	}
	return filtered
}
