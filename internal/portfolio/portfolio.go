// Package portfolio holds the static profile, skills and projects shown on
// the site.
package portfolio

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

type Social struct {
	Name  string `json:"name" validate:"required"`
	URL   string `json:"url" validate:"required"`
	Label string `json:"label" validate:"required"`
	Icon  string `json:"icon"`
}

type Profile struct {
	Name     string   `json:"name" validate:"required"`
	Role     string   `json:"role" validate:"required"`
	Tagline  string   `json:"tagline"`
	Location string   `json:"location"`
	Status   string   `json:"status"`
	Socials  []Social `json:"socials" validate:"dive"`
	Avatar   string   `json:"avatar"`
}

type Stat struct {
	Label string `json:"label" validate:"required"`
	Value string `json:"value" validate:"required"`
}

type About struct {
	Bio   string `json:"bio" validate:"required"`
	Stats []Stat `json:"stats" validate:"dive"`
}

type Skill struct {
	Name string `json:"name" validate:"required"`
	Icon string `json:"icon"`
}

type Link struct {
	Label string `json:"label" validate:"required"`
	URL   string `json:"url" validate:"required,url"`
	Icon  string `json:"icon"`
}

type Project struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Tags        []string `json:"tags"`
	IsLive      bool     `json:"isLive"`
	Links       []Link   `json:"links" validate:"dive"`
}

// Data is everything the presentation layer reads. Slice order is display order.
type Data struct {
	Profile  Profile   `json:"profile"`
	About    About     `json:"about"`
	Skills   []Skill   `json:"skills" validate:"dive"`
	Projects []Project `json:"projects" validate:"dive"`
}

// Get returns a copy of the portfolio data. The package value itself is
// never handed out, so callers cannot mutate it.
func Get() Data {
	return data.clone()
}

// Validate checks that every record carries its required fields.
func Validate(d Data) error {
	if err := validator.New().Struct(d); err != nil {
		return fmt.Errorf("invalid portfolio data: %w", err)
	}
	return nil
}

func (d Data) clone() Data {
	out := d
	out.Profile.Socials = append([]Social(nil), d.Profile.Socials...)
	out.About.Stats = append([]Stat(nil), d.About.Stats...)
	out.Skills = append([]Skill(nil), d.Skills...)
	out.Projects = make([]Project, len(d.Projects))
	for i, p := range d.Projects {
		p.Tags = append([]string(nil), p.Tags...)
		p.Links = append([]Link(nil), p.Links...)
		out.Projects[i] = p
	}
	return out
}
