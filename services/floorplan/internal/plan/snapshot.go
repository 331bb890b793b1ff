package plan

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

// Plan is a committed floor plan: the saved snapshot an edit session starts
// from and commits to.
type Plan struct {
	ID        uuid.UUID     `json:"id" bson:"_id"`
	Name      string        `json:"name" bson:"name"`
	Tables    []*TableNode  `json:"tables" bson:"tables"`
	Objects   []*ObjectNode `json:"objects" bson:"objects"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	CreatedBy string        `json:"created_by" bson:"created_by"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at"`
	UpdatedBy string        `json:"updated_by" bson:"updated_by"`
}

func NewPlan(name string) *Plan {
	return &Plan{
		ID:      apt.GenerateNewID(),
		Name:    name,
		Tables:  []*TableNode{},
		Objects: []*ObjectNode{},
	}
}

func (p *Plan) GetID() uuid.UUID {
	return p.ID
}

func (p *Plan) ResourceType() string {
	return "plan"
}

func (p *Plan) EnsureID() {
	if p.ID == uuid.Nil {
		p.ID = apt.GenerateNewID()
	}
}

func (p *Plan) BeforeCreate() {
	p.EnsureID()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
}

func (p *Plan) BeforeUpdate() {
	p.UpdatedAt = time.Now()
}

// Clone deep-copies the plan, including every node.
func (p *Plan) Clone() *Plan {
	if p == nil {
		return nil
	}
	c := *p
	c.Tables = cloneTables(p.Tables)
	c.Objects = cloneObjects(p.Objects)
	return &c
}

// Table finds a table by id.
func (p *Plan) Table(id uuid.UUID) (*TableNode, bool) {
	for _, t := range p.Tables {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

func cloneTables(src []*TableNode) []*TableNode {
	out := make([]*TableNode, 0, len(src))
	for _, t := range src {
		if t != nil {
			out = append(out, t.Clone())
		}
	}
	return out
}

func cloneObjects(src []*ObjectNode) []*ObjectNode {
	out := make([]*ObjectNode, 0, len(src))
	for _, o := range src {
		if o != nil {
			out = append(out, o.Clone())
		}
	}
	return out
}
