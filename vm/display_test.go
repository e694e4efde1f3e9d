package vm_test

import (
	"testing"

	"chip8emu/vm"
)

func TestDrawSprite_XORAndCollision(t *testing.T) {
	var d vm.Display
	mem := []byte{0xFF}

	vf := d.DrawSprite(mem, 0, 0, 0, 1)
	if vf != 0 {
		t.Fatalf("first draw VF = %d, want 0", vf)
	}
	for x := 0; x < 8; x++ {
		if !d.At(x, 0) {
			t.Errorf("pixel (%d,0) not set after first draw", x)
		}
	}

	vf = d.DrawSprite(mem, 0, 0, 0, 1)
	if vf != 1 {
		t.Errorf("second draw VF = %d, want 1 (collision)", vf)
	}
	for x := 0; x < 8; x++ {
		if d.At(x, 0) {
			t.Errorf("pixel (%d,0) still set after XOR-off", x)
		}
	}
}

func TestDrawSprite_WrapsStartCoordinate(t *testing.T) {
	var d vm.Display
	mem := []byte{0x80} // single set bit, leftmost column of the sprite row

	d.DrawSprite(mem, 0, vm.DisplayWidth+2, vm.DisplayHeight+1, 1)
	if !d.At(2, 1) {
		t.Errorf("expected wrapped start coordinate to draw at (2,1)")
	}
}

func TestDrawSprite_ClipsAtEdges(t *testing.T) {
	var d vm.Display
	mem := []byte{0xFF}

	d.DrawSprite(mem, 0, vm.DisplayWidth-2, 0, 1)
	for x := 0; x < 2; x++ {
		if !d.At(vm.DisplayWidth-2+x, 0) {
			t.Errorf("expected on-screen column %d to be set", vm.DisplayWidth-2+x)
		}
	}
	// Remaining 6 bits of the sprite byte would land past column 63 and
	// must be clipped, not wrapped back to column 0.
	for x := 0; x < 6; x++ {
		if d.At(x, 0) {
			t.Errorf("column %d should not have received clipped sprite bits", x)
		}
	}
}

func TestDisplay_ClearResetsAllPixels(t *testing.T) {
	var d vm.Display
	d.DrawSprite([]byte{0xFF}, 0, 0, 0, 1)
	d.Clear()
	for y := 0; y < vm.DisplayHeight; y++ {
		for x := 0; x < vm.DisplayWidth; x++ {
			if d.At(x, y) {
				t.Fatalf("pixel (%d,%d) set after Clear", x, y)
			}
		}
	}
}
