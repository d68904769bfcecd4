package unit

import (
	"errors"
	"fmt"

	"github.com/plus3/hearth/ecs"
	"github.com/plus3/hearth/game/component"
	"github.com/plus3/hearth/game/event"
)

var (
	ErrUnknownRecipe      = errors.New("unknown recipe")
	ErrRecipeNotLearned   = errors.New("recipe not learned")
	ErrNotACook           = errors.New("entity cannot cook")
	ErrAlreadyCooking     = errors.New("already cooking")
	ErrMissingIngredients = errors.New("missing ingredients")
)

// Recipe turns ingredients into a dish after Duration seconds.
type Recipe struct {
	Name        string
	Ingredients map[string]int
	Duration    float64
	Dish        string
	Nourishment float64
}

// CookingSystem runs timed recipes on entities with a Cooker.
type CookingSystem struct {
	ecs.SystemBase
	recipes map[string]Recipe
	items   ItemStore
}

func NewCookingSystem(recipes []Recipe) *CookingSystem {
	s := &CookingSystem{
		SystemBase: ecs.NewSystemBase(NameCooking, component.KindCooker, component.KindInventory),
		recipes:    make(map[string]Recipe, len(recipes)),
	}
	for _, r := range recipes {
		s.recipes[r.Name] = r
	}
	return s
}

func (s *CookingSystem) Initialize(w *ecs.World) error {
	s.Bind(w)
	items, err := ecs.Resolve[ItemStore](w, NameInventory)
	if err != nil {
		return err
	}
	s.items = items
	return nil
}

// Recipe looks up a recipe by name.
func (s *CookingSystem) Recipe(name string) (Recipe, bool) {
	r, ok := s.recipes[name]
	return r, ok
}

// Start consumes the recipe's ingredients from cook's inventory and begins
// the timer. Nothing is consumed when any ingredient is short.
func (s *CookingSystem) Start(cook ecs.EntityId, recipe string) error {
	r, ok := s.recipes[recipe]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRecipe, recipe)
	}
	cooker, ok := ecs.Get[component.Cooker](s.World, cook)
	if !ok {
		return fmt.Errorf("%w: entity %d", ErrNotACook, cook)
	}
	if !cooker.Knows(recipe) {
		return fmt.Errorf("%w: %q", ErrRecipeNotLearned, recipe)
	}
	if cooker.Active {
		return fmt.Errorf("%w: %q", ErrAlreadyCooking, cooker.Recipe)
	}
	for item, n := range r.Ingredients {
		if s.items.Count(cook, item) < n {
			return fmt.Errorf("%w: need %d %s", ErrMissingIngredients, n, item)
		}
	}
	for item, n := range r.Ingredients {
		s.items.TakeItem(cook, item, n)
	}

	cooker.Recipe = recipe
	cooker.Remaining = r.Duration
	cooker.Active = true
	s.World.Emit(event.CookingStarted{Entity: cook, Recipe: recipe, Duration: r.Duration})
	return nil
}

// Learn teaches cook a recipe, giving it a Cooker if it has none.
func (s *CookingSystem) Learn(cook ecs.EntityId, recipe string) error {
	if _, ok := s.recipes[recipe]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRecipe, recipe)
	}
	cooker, ok := ecs.Get[component.Cooker](s.World, cook)
	if !ok {
		cooker = &component.Cooker{}
		s.World.AddComponent(cook, cooker)
	}
	if cooker.Known == nil {
		cooker.Known = make(map[string]struct{})
	}
	cooker.Known[recipe] = struct{}{}
	return nil
}

// Update advances every active recipe and completes the ones that are done.
func (s *CookingSystem) Update(dt float64) {
	for id, cooker := range ecs.Each[component.Cooker](s.World.Storage()) {
		if !cooker.Active {
			continue
		}
		cooker.Remaining -= dt
		if cooker.Remaining > 0 {
			continue
		}

		recipe := cooker.Recipe
		cooker.Active = false
		cooker.Recipe = ""
		cooker.Remaining = 0

		r, ok := s.recipes[recipe]
		if !ok {
			s.World.Logger().Printf("cooking: entity %d finished unknown recipe %q", id, recipe)
			continue
		}
		s.World.Emit(event.CookingCompleted{
			Entity:      id,
			Recipe:      r.Name,
			Dish:        r.Dish,
			Nourishment: r.Nourishment,
		})
	}
}
