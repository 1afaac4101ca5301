package game

import (
	"github.com/gd3/engine/internal/core/event"
	"github.com/gd3/engine/internal/ui"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const (
	hudBarWidth = 20
	maxHealth   = 10
)

// Menu button names.
const (
	ButtonResume = "resume"
	ButtonQuit   = "quit"
)

// BuildHUD returns the in-game overlay: a title and the hero's health bar.
func BuildHUD(bus *event.Bus, title string, startHealth int, log *zap.Logger) (*ui.SceneManager, error) {
	hud := ui.NewScene("hud")
	hud.Add(ui.NewObject("title", ui.KindText, mgl32.Vec2{1, 0}, title))

	bar := ui.NewObject("health", ui.KindBar, mgl32.Vec2{1, 1}, "")
	bar.Size = mgl32.Vec2{hudBarWidth, 1}
	bar.Colour = mgl32.Vec3{0, 1, 0}
	if err := bar.AddController(ui.NewProgressBar(bus, HealthTarget, startHealth, maxHealth)); err != nil {
		return nil, err
	}
	hud.Add(bar)

	m := ui.NewSceneManager(bus, log)
	m.Add(hud)
	return m, nil
}

// MenuHandler resumes play or quits depending on the button pressed.
func MenuHandler(bus *event.Bus, quit func()) ui.ClickHandler {
	return ui.ClickHandlerFunc(func(b *ui.Object) {
		switch b.Name() {
		case ButtonResume:
			bus.Raise(event.New(event.CategoryMenu, event.OnPlay))
		case ButtonQuit:
			if quit != nil {
				quit()
			}
		}
	})
}

// BuildMenu returns the pause menu, shown while the game is paused.
func BuildMenu(bus *event.Bus, quit func(), log *zap.Logger) *ui.MenuManager {
	menu := ui.NewScene("pause")
	heading := ui.NewObject("heading", ui.KindText, mgl32.Vec2{4, 3}, "Paused")
	heading.Colour = mgl32.Vec3{1, 1, 0}
	menu.Add(heading)
	menu.Add(ui.NewObject(ButtonResume, ui.KindButton, mgl32.Vec2{4, 5}, "Resume"))
	menu.Add(ui.NewObject(ButtonQuit, ui.KindButton, mgl32.Vec2{4, 7}, "Quit"))

	m := ui.NewMenuManager(bus, MenuHandler(bus, quit), log)
	m.Add(menu)
	return m
}
