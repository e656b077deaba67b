package metrics

// Deaths counts alive to dead transitions.
type Deaths struct {
	name  string
	count int
	seen  bool
	alive bool
}

func NewDeaths() *Deaths {
	return &Deaths{name: "deaths"}
}

func (d *Deaths) Name() string { return d.name }

func (d *Deaths) Observe(s Sample) {
	if d.seen && d.alive && !s.Alive {
		d.count++
	}
	d.seen = true
	d.alive = s.Alive
}

func (d *Deaths) Value() float64 { return float64(d.count) }

func (d *Deaths) Reset() {
	d.count = 0
	d.seen = false
	d.alive = false
}

type AliveFraction struct {
	name    string
	alive   int
	samples int
}

func NewAliveFraction() *AliveFraction {
	return &AliveFraction{name: "alive_fraction"}
}

func (a *AliveFraction) Name() string { return a.name }

func (a *AliveFraction) Observe(s Sample) {
	a.samples++
	if s.Alive {
		a.alive++
	}
}

func (a *AliveFraction) Value() float64 {
	if a.samples == 0 {
		return 1.0
	}
	return float64(a.alive) / float64(a.samples)
}

func (a *AliveFraction) Reset() {
	a.alive = 0
	a.samples = 0
}
