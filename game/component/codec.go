package component

import (
	"math"

	"github.com/plus3/hearth/ecs"
	"github.com/plus3/hearth/persist"
	"github.com/rotisserie/eris"
)

type nameWire struct {
	Value string                   `json:"value"`
	Tags  persist.Elements[string] `json:"tags"`
}

type hungerWire struct {
	Current  float64 `json:"current"`
	Max      float64 `json:"max"`
	Rate     float64 `json:"rate"`
	Starving bool    `json:"starving"`
}

type inventoryWire struct {
	Items    persist.Pairs[string, int] `json:"items"`
	Capacity int                        `json:"capacity"`
}

type affinityWire struct {
	Levels persist.Pairs[ecs.EntityId, int] `json:"levels"`
}

type cookerWire struct {
	Known     persist.Elements[string] `json:"known"`
	Recipe    string                   `json:"recipe,omitempty"`
	Remaining float64                  `json:"remaining,omitempty"`
	Active    bool                     `json:"active"`
}

type equipmentWire struct {
	Slots persist.Pairs[string, string] `json:"slots"`
}

type buffWire struct {
	Name      string  `json:"name"`
	Stat      string  `json:"stat"`
	Amount    int     `json:"amount"`
	Remaining float64 `json:"remaining"`
}

type buffsWire struct {
	Active []buffWire `json:"active"`
}

// Codecs returns the persistence codec for every game component kind.
func Codecs() persist.Codecs {
	return persist.Codecs{
		KindName:      persist.Define(encodeName, decodeName),
		KindHunger:    persist.Define(encodeHunger, decodeHunger),
		KindInventory: persist.Define(encodeInventory, decodeInventory),
		KindAffinity:  persist.Define(encodeAffinity, decodeAffinity),
		KindCooker:    persist.Define(encodeCooker, decodeCooker),
		KindEquipment: persist.Define(encodeEquipment, decodeEquipment),
		KindBuffs:     persist.Define(encodeBuffs, decodeBuffs),
	}
}

func encodeName(n *Name) nameWire {
	return nameWire{Value: n.Value, Tags: persist.ElementsFromSet(n.Tags)}
}

func decodeName(w nameWire) (*Name, error) {
	tags, err := w.Tags.Set()
	if err != nil {
		return nil, eris.Wrap(err, "name tags")
	}
	return &Name{Value: w.Value, Tags: tags}, nil
}

func encodeHunger(h *Hunger) hungerWire {
	return hungerWire(*h)
}

func decodeHunger(w hungerWire) (*Hunger, error) {
	if !finite(w.Current, w.Max, w.Rate) {
		return nil, eris.New("hunger values must be finite")
	}
	if w.Max <= 0 {
		return nil, eris.Errorf("hunger max %v must be positive", w.Max)
	}
	if w.Current < 0 || w.Current > w.Max {
		return nil, eris.Errorf("hunger %v outside [0, %v]", w.Current, w.Max)
	}
	if w.Rate < 0 {
		return nil, eris.Errorf("hunger rate %v is negative", w.Rate)
	}
	h := Hunger(w)
	return &h, nil
}

func encodeInventory(inv *Inventory) inventoryWire {
	return inventoryWire{Items: persist.PairsFromMap(inv.Items), Capacity: inv.Capacity}
}

func decodeInventory(w inventoryWire) (*Inventory, error) {
	items, err := w.Items.Map()
	if err != nil {
		return nil, eris.Wrap(err, "inventory items")
	}
	for item, n := range items {
		if item == "" {
			return nil, eris.New("inventory item with empty name")
		}
		if n <= 0 {
			return nil, eris.Errorf("inventory count %d for %q must be positive", n, item)
		}
	}
	if w.Capacity < 0 {
		return nil, eris.Errorf("inventory capacity %d is negative", w.Capacity)
	}
	inv := &Inventory{Items: items, Capacity: w.Capacity}
	if inv.Capacity > 0 && inv.Total() > inv.Capacity {
		return nil, eris.Errorf("inventory holds %d items over capacity %d", inv.Total(), inv.Capacity)
	}
	return inv, nil
}

func encodeAffinity(a *Affinity) affinityWire {
	return affinityWire{Levels: persist.PairsFromMap(a.Levels)}
}

func decodeAffinity(w affinityWire) (*Affinity, error) {
	levels, err := w.Levels.Map()
	if err != nil {
		return nil, eris.Wrap(err, "affinity levels")
	}
	if _, ok := levels[0]; ok {
		return nil, eris.New("affinity toward entity 0")
	}
	return &Affinity{Levels: levels}, nil
}

func encodeCooker(c *Cooker) cookerWire {
	return cookerWire{
		Known:     persist.ElementsFromSet(c.Known),
		Recipe:    c.Recipe,
		Remaining: c.Remaining,
		Active:    c.Active,
	}
}

func decodeCooker(w cookerWire) (*Cooker, error) {
	known, err := w.Known.Set()
	if err != nil {
		return nil, eris.Wrap(err, "cooker recipes")
	}
	if !finite(w.Remaining) || w.Remaining < 0 {
		return nil, eris.Errorf("cooker remaining time %v is invalid", w.Remaining)
	}
	if w.Active && w.Recipe == "" {
		return nil, eris.New("active cooker without a recipe")
	}
	return &Cooker{Known: known, Recipe: w.Recipe, Remaining: w.Remaining, Active: w.Active}, nil
}

func encodeEquipment(e *Equipment) equipmentWire {
	return equipmentWire{Slots: persist.PairsFromMap(e.Slots)}
}

func decodeEquipment(w equipmentWire) (*Equipment, error) {
	slots, err := w.Slots.Map()
	if err != nil {
		return nil, eris.Wrap(err, "equipment slots")
	}
	for slot, item := range slots {
		if slot == "" || item == "" {
			return nil, eris.Errorf("equipment slot %q holds %q", slot, item)
		}
	}
	return &Equipment{Slots: slots}, nil
}

func encodeBuffs(b *Buffs) buffsWire {
	active := make([]buffWire, len(b.Active))
	for i, buff := range b.Active {
		active[i] = buffWire(buff)
	}
	return buffsWire{Active: active}
}

func decodeBuffs(w buffsWire) (*Buffs, error) {
	seen := make(map[string]struct{}, len(w.Active))
	active := make([]Buff, 0, len(w.Active))
	for _, bw := range w.Active {
		if bw.Name == "" {
			return nil, eris.New("buff with empty name")
		}
		if _, dup := seen[bw.Name]; dup {
			return nil, eris.Errorf("buff %q listed twice", bw.Name)
		}
		if !finite(bw.Remaining) || bw.Remaining <= 0 {
			return nil, eris.Errorf("buff %q remaining time %v is invalid", bw.Name, bw.Remaining)
		}
		seen[bw.Name] = struct{}{}
		active = append(active, Buff(bw))
	}
	return &Buffs{Active: active}, nil
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
