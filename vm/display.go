package vm

// Display is the 64x32 boolean pixel grid, origin top-left (§3).
type Display struct {
	pixels [DisplayHeight][DisplayWidth]bool
}

func (d *Display) Clear() {
	d.pixels = [DisplayHeight][DisplayWidth]bool{}
}

func (d *Display) At(x, y int) bool {
	return d.pixels[y][x]
}

// DrawSprite implements §4.9: an n-row, 8-column sprite read from mem
// starting at addr is XOR-drawn at (vx, vy), wrapping at the starting
// position and clipping thereafter. It returns the VF collision flag.
func (d *Display) DrawSprite(mem []byte, addr int, vx, vy, n int) byte {
	x0 := vx % DisplayWidth
	y0 := vy % DisplayHeight

	var collided byte
	for row := 0; row < n; row++ {
		y := y0 + row
		if y >= DisplayHeight {
			break
		}
		b := mem[addr+row]
		for bit := 0; bit < 8; bit++ {
			xp := x0 + bit
			if xp >= DisplayWidth {
				break
			}
			src := (b >> (7 - bit)) & 1
			if src == 1 && d.pixels[y][xp] {
				collided = 1
			}
			if src == 1 {
				d.pixels[y][xp] = !d.pixels[y][xp]
			}
		}
	}
	return collided
}
