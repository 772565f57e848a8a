package physics

import (
	"math"
	"testing"
)

func TestNewObjectAtRest(t *testing.T) {
	o := NewObject(Vec2{X: 3, Y: 4}, 2)
	if o.Position != o.PositionLast {
		t.Errorf("position_last %v differs from position %v", o.PositionLast, o.Position)
	}
	v := o.GetVelocity(0.01)
	if v.X != 0 || v.Y != 0 {
		t.Errorf("expected zero velocity, got %v", v)
	}
}

func TestObjectUpdateConsumesAcceleration(t *testing.T) {
	o := NewObject(Vec2{}, 1)
	o.Accelerate(Vec2{X: 0, Y: 10})
	o.Accelerate(Vec2{X: 2, Y: 0})
	o.Update(0.1)

	if math.Abs(o.Position.X-0.02) > 1e-12 || math.Abs(o.Position.Y-0.1) > 1e-12 {
		t.Errorf("unexpected position after one step: %v", o.Position)
	}
	if o.Acceleration.X != 0 || o.Acceleration.Y != 0 {
		t.Errorf("acceleration not reset: %v", o.Acceleration)
	}
	if o.PositionLast.X != 0 || o.PositionLast.Y != 0 {
		t.Errorf("position_last should hold the previous position, got %v", o.PositionLast)
	}
}

func TestObjectVelocity(t *testing.T) {
	dt := 1.0 / 480
	tests := []struct {
		name string
		set  Vec2
		add  Vec2
		want Vec2
	}{
		{"set only", Vec2{X: 3, Y: -4}, Vec2{}, Vec2{X: 3, Y: -4}},
		{"set then add", Vec2{X: 1, Y: 1}, Vec2{X: 2, Y: -3}, Vec2{X: 3, Y: -2}},
		{"add to rest", Vec2{}, Vec2{X: 0, Y: 5}, Vec2{X: 0, Y: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewObject(Vec2{X: 10, Y: 10}, 1)
			o.SetVelocity(tt.set, dt)
			o.AddVelocity(tt.add, dt)

			if o.Position.X != 10 || o.Position.Y != 10 {
				t.Errorf("velocity changes must not move the object, got %v", o.Position)
			}
			got := o.GetVelocity(dt)
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("GetVelocity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestObjectInertia(t *testing.T) {
	dt := 0.01
	o := NewObject(Vec2{}, 1)
	o.SetVelocity(Vec2{X: 2, Y: 0}, dt)
	for i := 0; i < 100; i++ {
		o.Update(dt)
	}
	if math.Abs(o.Position.X-2.0) > 1e-9 {
		t.Errorf("expected x=2 after 1s at 2 units/s, got %f", o.Position.X)
	}
}
