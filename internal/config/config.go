// internal/config/config.go
package config

import "image/color"

// Симуляция
const (
	TileSize     = 32
	MaxDeltaTime = 0.06
	TickRate     = 60 // тиков в секунду у сервера

	DefaultGold       = 150
	DefaultBaseHealth = 20
	InitialWaveDelay  = 5.0 // пауза перед первой волной
	DefaultCellSize   = 96.0

	MinEnemySpeed = 5.0 // пол скорости врага, если он не оглушён
)

// Снаряды и атаки
const (
	ProjectileSpeed      = 450.0 // пикселей в секунду
	RetargetRadius       = 120.0
	PierceSearchRadius   = 150.0
	MultiShotSpreadDeg   = 15.0
	MultiShotOriginShift = 8.0
	DefaultSplashRatio   = 0.5
	DefaultAuraTickRate  = 4.0
	DefaultAuraRadius    = 50.0
	DefaultAuraDuration  = 3.0
	DefaultDensityRadius = 75.0
	DefaultEffectTick    = 1.0
)

// Окно отладочного просмотрщика
const (
	ScreenWidth  = 1280
	ScreenHeight = 800
	HUDHeight    = 64

	EnemyRadius      = 9.0
	TowerRadius      = 12.0
	ProjectileRadius = 3.0
	StrokeWidth      = 2.0
)

var (
	BackgroundColor = color.RGBA{20, 20, 30, 255}
	TextLightColor  = color.RGBA{240, 240, 240, 255}
	HealthBarBack   = color.RGBA{60, 20, 20, 255}
	HealthBarFront  = color.RGBA{80, 220, 80, 255}
	RangeColor      = color.RGBA{255, 255, 255, 40}
)
