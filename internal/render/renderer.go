// internal/render/renderer.go
package render

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"go-tower-director/internal/app"
	"go-tower-director/internal/component"
	"go-tower-director/internal/config"
	"go-tower-director/internal/types"
)

// Selection is what the viewer has picked: a tower type to build and a
// placed tower to inspect.
type Selection struct {
	TowerType string
	Tower     types.EntityID
	Paused    bool
}

// Renderer рисует карту, сущности и HUD отладочного просмотрщика.
type Renderer struct {
	tileSize float64
	offsetX  float64
	offsetY  float64
	mapImage *ebiten.Image // предрендеренная карта
	face     text.Face
}

// NewRenderer centers the level above the HUD strip and pre-renders it.
func NewRenderer(g *app.Game, screenWidth, screenHeight int) *Renderer {
	grid := g.Level.Grid
	ts := float64(g.TileSize)
	r := &Renderer{
		tileSize: ts,
		offsetX:  max(0, (float64(screenWidth)-float64(grid.Width)*ts)/2),
		offsetY:  max(0, (float64(screenHeight-config.HUDHeight)-float64(grid.Height)*ts)/2),
		face:     text.NewGoXFace(basicfont.Face7x13),
	}
	r.RenderMapImage(g)
	return r
}

// RenderMapImage перерисовывает статичную часть карты: клетки и пути.
func (r *Renderer) RenderMapImage(g *app.Game) {
	grid := g.Level.Grid
	ts := float32(r.tileSize)
	img := ebiten.NewImage(grid.Width*g.TileSize, grid.Height*g.TileSize)
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			c := TileColors[grid.At(x, y)]
			vector.DrawFilledRect(img, float32(x)*ts, float32(y)*ts, ts, ts, c, false)
			vector.StrokeRect(img, float32(x)*ts, float32(y)*ts, ts, ts, 1, DarkenColor(c), false)
		}
	}
	for _, path := range g.Paths {
		for i := 1; i < len(path); i++ {
			a, b := path[i-1], path[i]
			vector.StrokeLine(img, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), config.StrokeWidth, PathLineColor, true)
		}
	}
	r.mapImage = img
}

// ScreenToTile converts a cursor position into tile coordinates.
func (r *Renderer) ScreenToTile(x, y int) (int, int) {
	tx := (float64(x) - r.offsetX) / r.tileSize
	ty := (float64(y) - r.offsetY) / r.tileSize
	if tx < 0 || ty < 0 {
		return -1, -1
	}
	return int(tx), int(ty)
}

func (r *Renderer) screen(p types.Vec2) (float32, float32) {
	return float32(p.X + r.offsetX), float32(p.Y + r.offsetY)
}

func (r *Renderer) Draw(screen *ebiten.Image, g *app.Game, sel Selection) {
	screen.Fill(config.BackgroundColor)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(r.offsetX, r.offsetY)
	screen.DrawImage(r.mapImage, op)

	for _, a := range g.ECS.SortedAuras() {
		x, y := r.screen(a.Pos)
		c := GroundAuraColor
		if a.Attached {
			c = AttachedAuraColor
		}
		vector.DrawFilledCircle(screen, x, y, float32(a.Radius), c, true)
	}
	for _, t := range g.ECS.SortedTowers() {
		r.drawTower(screen, g, t, t.ID == sel.Tower)
	}
	for _, e := range g.ECS.SortedEnemies() {
		r.drawEnemy(screen, g, e)
	}
	for _, p := range g.ECS.SortedProjectiles() {
		x, y := r.screen(p.Pos)
		vector.DrawFilledCircle(screen, x, y, config.ProjectileRadius, ProjectileColor, true)
	}
	r.drawHUD(screen, g, sel)
}

func (r *Renderer) drawTower(screen *ebiten.Image, g *app.Game, t *component.Tower, selected bool) {
	x, y := r.screen(t.Pos)
	c := SelectionColor
	if def, ok := g.Catalog.Tower(t.TypeID); ok {
		c = RGB(def.Color)
	}
	if selected {
		vector.StrokeCircle(screen, x, y, float32(t.Range()), 1, config.RangeColor, true)
		vector.DrawFilledCircle(screen, x, y, config.TowerRadius+2, SelectionColor, true)
	}
	vector.DrawFilledCircle(screen, x, y, config.TowerRadius, c, true)
	vector.StrokeCircle(screen, x, y, config.TowerRadius, config.StrokeWidth, DarkenColor(c), true)
}

func (r *Renderer) drawEnemy(screen *ebiten.Image, g *app.Game, e *component.Enemy) {
	x, y := r.screen(e.Pos)
	radius := float32(config.EnemyRadius)
	if e.Size > 0 {
		radius = float32(e.Size)
	}
	c := SelectionColor
	if def, ok := g.Catalog.Enemy(e.TypeID); ok {
		c = RGB(def.Color)
	}
	vector.DrawFilledCircle(screen, x, y, radius, c, true)

	// полоска здоровья над врагом
	w := radius * 2
	top := y - radius - 6
	vector.DrawFilledRect(screen, x-radius, top, w, 3, config.HealthBarBack, false)
	vector.DrawFilledRect(screen, x-radius, top, w*float32(e.HPFraction()), 3, config.HealthBarFront, false)
}

func (r *Renderer) drawHUD(screen *ebiten.Image, g *app.Game, sel Selection) {
	st := g.StateSnapshot()
	top := float64(screen.Bounds().Dy() - config.HUDHeight + 8)

	lines := []string{
		fmt.Sprintf("Gold %d   Base %d   Wave %d/%d   %s   next in %.1fs   difficulty %d",
			st.Gold, st.BaseHP, st.Wave, st.MaxWaves, st.Phase, st.TimeToNextWave, st.Difficulty),
		r.buildLine(g, sel),
		"1-9 tower  LMB place/select  RMB salvage  U/I upgrade  P persona  Space pause",
	}
	switch {
	case st.Victory:
		lines[0] += "   VICTORY"
	case st.GameOver:
		lines[0] += "   GAME OVER"
	case sel.Paused:
		lines[0] += "   PAUSED"
	}
	for i, line := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(8, top+float64(i)*16)
		op.ColorScale.ScaleWithColor(config.TextLightColor)
		text.Draw(screen, line, r.face, op)
	}
}

func (r *Renderer) buildLine(g *app.Game, sel Selection) string {
	var b strings.Builder
	for i, id := range g.Buildable() {
		if i >= 9 {
			break
		}
		mark := " "
		if id == sel.TowerType {
			mark = "*"
		}
		cost := 0
		if def, ok := g.Catalog.Tower(id); ok {
			cost = def.Cost
		}
		fmt.Fprintf(&b, "%s%d:%s(%d) ", mark, i+1, id, cost)
	}
	if t, ok := g.ECS.Towers[sel.Tower]; ok {
		fmt.Fprintf(&b, "| tower %d %s A%d B%d %s", t.ID, t.TypeID, t.TierA, t.TierB, t.Persona)
	}
	return b.String()
}
