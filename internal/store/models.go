package store

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Document is the full persisted record for one resume: the current snapshot
// plus a bounded history of past snapshots, newest first.
type Document struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Version   int64      `json:"version"`
	Current   Snapshot   `json:"current"`
	History   []Snapshot `json:"history"`
}

// Snapshot is one saved state of a resume. An empty Name marks an autosave,
// which is subject to day-based pruning; named snapshots are kept.
type Snapshot struct {
	ID          string          `json:"id"`
	Timestamp   time.Time       `json:"timestamp"`
	Name        string          `json:"name,omitempty"`
	Resume      Resume          `json:"resume"`
	Settings    json.RawMessage `json:"settings,omitempty"`
	EditHistory *EditHistory    `json:"editHistory,omitempty"`
}

// Named reports whether the snapshot carries a user-assigned name.
func (s Snapshot) Named() bool {
	return s.Name != ""
}

type Resume struct {
	Header   *Header   `json:"header"`
	Sections []Section `json:"sections"`
}

type Header struct {
	FullName string `json:"fullName"`
	Title    string `json:"title"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty"`
	Summary  string `json:"summary,omitempty"`
	PhotoKey string `json:"photoKey,omitempty"`
}

type Column string

const (
	ColumnLeft  Column = "left"
	ColumnRight Column = "right"
)

func (c Column) Valid() bool {
	return c == ColumnLeft || c == ColumnRight
}

type SectionType string

const (
	SectionEducation         SectionType = "education"
	SectionProjects          SectionType = "projects"
	SectionLanguages         SectionType = "languages"
	SectionSkills            SectionType = "skills"
	SectionAchievements      SectionType = "achievements"
	SectionVolunteering      SectionType = "volunteering"
	SectionMyTime            SectionType = "my-time"
	SectionIndustryExpertise SectionType = "industry-expertise"
)

var sectionTypes = map[SectionType]struct{}{
	SectionEducation:         {},
	SectionProjects:          {},
	SectionLanguages:         {},
	SectionSkills:            {},
	SectionAchievements:      {},
	SectionVolunteering:      {},
	SectionMyTime:            {},
	SectionIndustryExpertise: {},
}

func (t SectionType) Valid() bool {
	_, ok := sectionTypes[t]
	return ok
}

// Section is one content block of a resume. Content is a tagged union keyed
// by Type: only the field matching Type may be populated.
type Section struct {
	ID      string         `json:"id"`
	Type    SectionType    `json:"type"`
	Column  Column         `json:"column"`
	Title   string         `json:"title"`
	Content SectionContent `json:"content"`
}

type SectionContent struct {
	Education         []EducationItem    `json:"education,omitempty"`
	Projects          []ProjectItem      `json:"projects,omitempty"`
	Languages         []LanguageItem     `json:"languages,omitempty"`
	Skills            []SkillItem        `json:"skills,omitempty"`
	Achievements      []AchievementItem  `json:"achievements,omitempty"`
	Volunteering      []VolunteeringItem `json:"volunteering,omitempty"`
	MyTime            []TimeSlice        `json:"myTime,omitempty"`
	IndustryExpertise []ExpertiseItem    `json:"industryExpertise,omitempty"`
}

type EducationItem struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Period      string `json:"period,omitempty"`
	Description string `json:"description,omitempty"`
}

type ProjectItem struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Link        string `json:"link,omitempty"`
	Period      string `json:"period,omitempty"`
}

type LanguageItem struct {
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

type SkillItem struct {
	Name string `json:"name"`
}

type AchievementItem struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type VolunteeringItem struct {
	Organization string `json:"organization"`
	Role         string `json:"role,omitempty"`
	Period       string `json:"period,omitempty"`
	Description  string `json:"description,omitempty"`
}

type TimeSlice struct {
	Label   string  `json:"label"`
	Percent float64 `json:"percent"`
}

type ExpertiseItem struct {
	Name  string `json:"name"`
	Level int    `json:"level,omitempty"`
}

// ItemCount returns how many content entries the section holds, regardless
// of which variant is populated.
func (c SectionContent) ItemCount() int {
	return len(c.Education) + len(c.Projects) + len(c.Languages) +
		len(c.Skills) + len(c.Achievements) + len(c.Volunteering) +
		len(c.MyTime) + len(c.IndustryExpertise)
}

// populatedVariants lists which union fields are set, used to reject
// sections whose content does not match the declared type.
func (c SectionContent) populatedVariants() []SectionType {
	var out []SectionType
	if len(c.Education) > 0 {
		out = append(out, SectionEducation)
	}
	if len(c.Projects) > 0 {
		out = append(out, SectionProjects)
	}
	if len(c.Languages) > 0 {
		out = append(out, SectionLanguages)
	}
	if len(c.Skills) > 0 {
		out = append(out, SectionSkills)
	}
	if len(c.Achievements) > 0 {
		out = append(out, SectionAchievements)
	}
	if len(c.Volunteering) > 0 {
		out = append(out, SectionVolunteering)
	}
	if len(c.MyTime) > 0 {
		out = append(out, SectionMyTime)
	}
	if len(c.IndustryExpertise) > 0 {
		out = append(out, SectionIndustryExpertise)
	}
	return out
}

// MatchesType reports whether every populated content field belongs to the
// section's declared type. Empty content matches any type.
func (s Section) MatchesType() bool {
	for _, v := range s.Content.populatedVariants() {
		if v != s.Type {
			return false
		}
	}
	return true
}

// EditHistory is the persisted form of the in-editor undo stack attached to
// one snapshot. Past and Future are each capped at 50 entries.
type EditHistory struct {
	Past   []EditStep `json:"past"`
	Future []EditStep `json:"future"`
}

type EditStep struct {
	Header    *Header   `json:"header"`
	Sections  []Section `json:"sections"`
	CreatedAt time.Time `json:"createdAt"`
}

// Summary is the listing projection of a document.
type Summary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Timestamp    time.Time `json:"timestamp"`
	SectionCount int       `json:"sectionCount"`
}

// NewID returns a fresh identifier for documents and snapshots.
func NewID() string {
	return uuid.NewString()
}

// Clone returns a deep copy of the resume. Undo frames and history snapshots
// must be fully independent of later mutation.
func (r Resume) Clone() Resume {
	out := Resume{}
	if r.Header != nil {
		h := *r.Header
		out.Header = &h
	}
	if r.Sections != nil {
		out.Sections = make([]Section, len(r.Sections))
		for i, sec := range r.Sections {
			out.Sections[i] = sec.Clone()
		}
	}
	return out
}

func (s Section) Clone() Section {
	out := s
	out.Content = s.Content.clone()
	return out
}

func (c SectionContent) clone() SectionContent {
	out := SectionContent{}
	out.Education = append([]EducationItem(nil), c.Education...)
	out.Projects = append([]ProjectItem(nil), c.Projects...)
	out.Languages = append([]LanguageItem(nil), c.Languages...)
	out.Skills = append([]SkillItem(nil), c.Skills...)
	out.Achievements = append([]AchievementItem(nil), c.Achievements...)
	out.Volunteering = append([]VolunteeringItem(nil), c.Volunteering...)
	out.MyTime = append([]TimeSlice(nil), c.MyTime...)
	out.IndustryExpertise = append([]ExpertiseItem(nil), c.IndustryExpertise...)
	return out
}

func (e EditStep) Clone() EditStep {
	out := EditStep{CreatedAt: e.CreatedAt}
	if e.Header != nil {
		h := *e.Header
		out.Header = &h
	}
	if e.Sections != nil {
		out.Sections = make([]Section, len(e.Sections))
		for i, sec := range e.Sections {
			out.Sections[i] = sec.Clone()
		}
	}
	return out
}

func (h EditHistory) Clone() EditHistory {
	out := EditHistory{
		Past:   make([]EditStep, len(h.Past)),
		Future: make([]EditStep, len(h.Future)),
	}
	for i, step := range h.Past {
		out.Past[i] = step.Clone()
	}
	for i, step := range h.Future {
		out.Future[i] = step.Clone()
	}
	return out
}
