// Package settings holds the tuning data for the character engine. Values are
// plain structs so they can be embedded in game configuration files; every
// section has a Default constructor with the shipped tuning.
package settings

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stride-works/kinetic/game"
	"github.com/stride-works/kinetic/kerror"
)

// Settings bundles every tunable section of the engine.
type Settings struct {
	Movement Movement `yaml:"movement"`
	Rail     Rail     `yaml:"rail"`
	Actions  Actions  `yaml:"actions"`
}

// Movement tunes the kinematic solver and ground sensor.
type Movement struct {
	MaxSpeed        float32 `yaml:"max_speed"`
	MaxRollingSpeed float32 `yaml:"max_rolling_speed"`
	Acceleration    float32 `yaml:"acceleration"`
	MinMoveSpeed    float32 `yaml:"min_move_speed"`

	BrakeFriction   float32 `yaml:"brake_friction"`
	GroundFriction  float32 `yaml:"ground_friction"`
	RollingFriction float32 `yaml:"rolling_friction"`
	AirDrag         float32 `yaml:"air_drag"`

	Gravity      float32 `yaml:"gravity"`
	MaxFallSpeed float32 `yaml:"max_fall_speed"`
	JumpSpeed    float32 `yaml:"jump_speed"`
	JumpCutSpeed float32 `yaml:"jump_cut_speed"`

	LandingConversion   float32 `yaml:"landing_conversion"`
	SlopeBoost          float32 `yaml:"slope_boost"`
	SlidePush           float32 `yaml:"slide_push"`
	SlopeSpeedThreshold float32 `yaml:"slope_speed_threshold"`
	DetachNudge         float32 `yaml:"detach_nudge"`

	FacingRate            float32 `yaml:"facing_rate"`
	AirRotationMultiplier float32 `yaml:"air_rotation_multiplier"`

	ProbeMargin   float32 `yaml:"probe_margin"`
	ProbeDistance float32 `yaml:"probe_distance"`
	StickDistance float32 `yaml:"stick_distance"`

	// RotationRate maps normalized speed (speed / MaxSpeed) to the turn rate
	// in radians per second applied to the velocity direction.
	RotationRate game.RateCurve `yaml:"rotation_rate"`
}

// Rail tunes spline sampling and the grind controller.
type Rail struct {
	SegmentsPerSpan int     `yaml:"segments_per_span"`
	InitialBoost    float32 `yaml:"initial_boost"`
	UphillDecel     float32 `yaml:"uphill_decel"`
	DownhillAccel   float32 `yaml:"downhill_accel"`
	MaxSpeed        float32 `yaml:"max_speed"`
	MinSpeed        float32 `yaml:"min_speed"`
	EndDistance     float32 `yaml:"end_distance"`
	TurnRate        float32 `yaml:"turn_rate"`
	BoostAmount     float32 `yaml:"boost_amount"`
	AttachDistance  float32 `yaml:"attach_distance"`
}

// Actions tunes the discrete moves run by the dispatcher.
type Actions struct {
	SpinChargeTime float32 `yaml:"spin_charge_time"`
	SpinBoostMax   float32 `yaml:"spin_boost_max"`

	BounceForce    float32 `yaml:"bounce_force"`
	BounceFraction float32 `yaml:"bounce_fraction"`
	BounceBaseline float32 `yaml:"bounce_baseline"`
	BounceGrowth   float32 `yaml:"bounce_growth"`
	BounceMax      float32 `yaml:"bounce_max"`

	HomingSpeed     float32 `yaml:"homing_speed"`
	HomingRange     float32 `yaml:"homing_range"`
	HomingGiveUp    float32 `yaml:"homing_give_up"`
	HomingHitRadius float32 `yaml:"homing_hit_radius"`

	DashSpeed    float32 `yaml:"dash_speed"`
	DashDuration float32 `yaml:"dash_duration"`
}

// Default returns the shipped tuning for every section.
func Default() Settings {
	return Settings{
		Movement: DefaultMovement(),
		Rail:     DefaultRail(),
		Actions:  DefaultActions(),
	}
}

// DefaultMovement returns the shipped movement tuning.
func DefaultMovement() Movement {
	return Movement{
		MaxSpeed:        40,
		MaxRollingSpeed: 60,
		Acceleration:    30,
		MinMoveSpeed:    2,

		BrakeFriction:   8,
		GroundFriction:  10,
		RollingFriction: 2,
		AirDrag:         0.5,

		Gravity:      50,
		MaxFallSpeed: 40,
		JumpSpeed:    18,
		JumpCutSpeed: 6,

		LandingConversion:   0.5,
		SlopeBoost:          1.2,
		SlidePush:           6,
		SlopeSpeedThreshold: 8,
		DetachNudge:         4,

		FacingRate:            12,
		AirRotationMultiplier: 0.5,

		ProbeMargin:   0.3,
		ProbeDistance: 0.6,
		StickDistance: 0.5,

		RotationRate: game.NewRateCurve(
			game.Keyframe{T: 0, Value: 12},
			game.Keyframe{T: 0.5, Value: 6},
			game.Keyframe{T: 1, Value: 2.5},
		),
	}
}

// DefaultRail returns the shipped rail tuning.
func DefaultRail() Rail {
	return Rail{
		SegmentsPerSpan: 16,
		InitialBoost:    4,
		UphillDecel:     10,
		DownhillAccel:   25,
		MaxSpeed:        70,
		MinSpeed:        3,
		EndDistance:     0.5,
		TurnRate:        20,
		BoostAmount:     12,
		AttachDistance:  1.5,
	}
}

// DefaultActions returns the shipped action tuning.
func DefaultActions() Actions {
	return Actions{
		SpinChargeTime: 1.5,
		SpinBoostMax:   35,

		BounceForce:    30,
		BounceFraction: 0.8,
		BounceBaseline: 1,
		BounceGrowth:   0.25,
		BounceMax:      2,

		HomingSpeed:     45,
		HomingRange:     25,
		HomingGiveUp:    1.5,
		HomingHitRadius: 1,

		DashSpeed:    35,
		DashDuration: 0.4,
	}
}

// Load reads a yaml settings file. Sections absent from the file keep their
// defaults.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, kerror.New("settings: read %s: %v", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, kerror.New("settings: parse %s: %v", path, err)
	}
	return s, nil
}
