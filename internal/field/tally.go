package field

// Tally is a Surface that only counts paint calls.
type Tally struct {
	Clears  int
	Circles int
	Lines   int
}

func (t *Tally) Clear()                                        { t.Clears++ }
func (t *Tally) FillCircle(x, y, r float64, c Color)           { t.Circles++ }
func (t *Tally) StrokeLine(x0, y0, x1, y1, w float64, c Color) { t.Lines++ }

func (t *Tally) Paints() int { return t.Circles + t.Lines }

func (t *Tally) Reset() { *t = Tally{} }
