package particle

import "testing"

func TestWriteSlot_Layout(t *testing.T) {
	b := NewBuffers(4, false)
	b.WriteSlot(2, Vec3{1, 2, 3}, [3]float32{0.1, 0.2, 0.3}, 0.5, 1.5, Vec3{-1, -2, -3})

	inst := b.Instance[2*InstanceStride : 3*InstanceStride]
	want := []float32{1, 2, 3, 0.1, 0.2, 0.3, 0.5, 1.5}
	for i, w := range want {
		if inst[i] != w {
			t.Errorf("instance[%d] = %f, want %f", i, inst[i], w)
		}
	}

	vel := b.Velocity[2*VelocityStride : 3*VelocityStride]
	wantV := []float32{-1, -2, -3, 0}
	for i, w := range wantV {
		if vel[i] != w {
			t.Errorf("velocity[%d] = %f, want %f", i, vel[i], w)
		}
	}
}

func TestWriteSlot_DoesNotTouchNeighbors(t *testing.T) {
	b := NewBuffers(3, false)
	b.WriteSlot(0, Vec3{9, 9, 9}, [3]float32{1, 1, 1}, 1, 2, Vec3{9, 9, 9})
	b.WriteSlot(2, Vec3{8, 8, 8}, [3]float32{1, 1, 1}, 1, 2, Vec3{8, 8, 8})
	b.WriteSlot(1, Vec3{7, 7, 7}, [3]float32{1, 1, 1}, 1, 2, Vec3{7, 7, 7})

	if b.Position(0) != (Vec3{9, 9, 9}) || b.Position(2) != (Vec3{8, 8, 8}) {
		t.Error("neighbor slots disturbed by write")
	}
}

func TestCopySlot_FullRecord(t *testing.T) {
	b := NewBuffers(2, false)
	b.WriteSlot(1, Vec3{1, 2, 3}, [3]float32{0.4, 0.5, 0.6}, 0.7, 1.9, Vec3{4, 5, 6})
	b.CopySlot(0, 1)

	if b.Position(0) != b.Position(1) {
		t.Error("position not copied")
	}
	if b.Age(0) != 0.7 || b.Lifetime(0) != 1.9 {
		t.Errorf("age/lifetime not copied: %f %f", b.Age(0), b.Lifetime(0))
	}
	if b.VelocityAt(0) != (Vec3{4, 5, 6}) {
		t.Errorf("velocity not copied: %+v", b.VelocityAt(0))
	}
}

func TestClearSlot_ReadsDead(t *testing.T) {
	b := NewBuffers(1, false)
	b.WriteSlot(0, Vec3{1, 1, 1}, [3]float32{1, 1, 1}, 0, 5, Vec3{1, 1, 1})
	if b.Dead(0) {
		t.Fatal("fresh slot should be live")
	}
	b.ClearSlot(0)
	if !b.Dead(0) {
		t.Error("cleared slot should read as dead")
	}
	if b.VelocityAt(0) != (Vec3{}) {
		t.Error("cleared slot kept velocity")
	}
}

func TestNewBuffers_ZeroInitialized(t *testing.T) {
	b := NewBuffers(8, false)
	for i := 0; i < 8; i++ {
		if !b.Dead(i) {
			t.Fatalf("slot %d not dead at creation", i)
		}
	}
}

func TestApplyReadback_CopiesActivePrefix(t *testing.T) {
	b := NewBuffers(3, false)
	inst := make([]float32, 2*InstanceStride)
	vel := make([]float32, 2*VelocityStride)
	for i := range inst {
		inst[i] = float32(i)
	}
	for i := range vel {
		vel[i] = float32(100 + i)
	}
	b.ApplyReadback(inst, vel, 2)

	if b.Instance[0] != 0 || b.Instance[2*InstanceStride-1] != float32(2*InstanceStride-1) {
		t.Error("instance prefix not applied")
	}
	if b.Instance[2*InstanceStride] != 0 {
		t.Error("readback wrote past the active prefix")
	}
	if b.Velocity[0] != 100 {
		t.Error("velocity prefix not applied")
	}
}
