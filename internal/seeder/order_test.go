package seeder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"modelseed/internal/entity"
)

func desc(name string, deps ...string) *resolved {
	d := &entity.Descriptor{Name: name}
	for _, dep := range deps {
		d.Fields = append(d.Fields, entity.Field{Name: dep + "ID", Relation: &entity.Relation{Entity: dep, Field: "ID"}})
	}
	return &resolved{desc: d}
}

func names(rs []*resolved) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.desc.Name
	}
	return out
}

func TestOrder(t *testing.T) {
	tests := []struct {
		name string
		in   []*resolved
		want []string
	}{
		{"no relations keeps order", []*resolved{desc("B"), desc("A")}, []string{"B", "A"}},
		{"dependency first", []*resolved{desc("Action", "Player"), desc("Player", "Game"), desc("Game")}, []string{"Game", "Player", "Action"}},
		{"unregistered dependency ignored", []*resolved{desc("Action", "Player"), desc("Game")}, []string{"Action", "Game"}},
		{"self reference", []*resolved{desc("Node", "Node")}, []string{"Node"}},
		{"repeated entity", []*resolved{desc("Player", "Game"), desc("Game"), desc("Game")}, []string{"Game", "Game", "Player"}},
		{"cycle falls back to registration", []*resolved{desc("A", "B"), desc("B", "A")}, []string{"A", "B"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(order(tt.in)))
		})
	}
}
