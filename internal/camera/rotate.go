package camera

// AutoRotate swings the idle camera back and forth between two azimuth
// bounds.
type AutoRotate struct {
	Speed      float64 // radians per tick
	MinAzimuth float64
	MaxAzimuth float64
	Epsilon    float64

	dir float64
}

// NewAutoRotate returns a rotator that starts turning toward MaxAzimuth.
func NewAutoRotate(speed, minAzimuth, maxAzimuth, epsilon float64) *AutoRotate {
	if minAzimuth > maxAzimuth {
		minAzimuth, maxAzimuth = maxAzimuth, minAzimuth
	}
	return &AutoRotate{
		Speed:      speed,
		MinAzimuth: minAzimuth,
		MaxAzimuth: maxAzimuth,
		Epsilon:    epsilon,
		dir:        1,
	}
}

// Direction is +1 while turning toward MaxAzimuth and -1 otherwise.
func (a *AutoRotate) Direction() float64 { return a.dir }

// Step advances one tick. Inactive ticks change neither the camera nor the
// direction, so rotation picks up where it stopped.
func (a *AutoRotate) Step(c Camera, active bool) Camera {
	if !active {
		return c
	}
	o := OrbitOf(c)
	// Outside the bounds (after a manual orbit) turn back toward them
	// instead of snapping onto the nearest one.
	switch {
	case o.Azimuth > a.MaxAzimuth:
		a.dir = -1
	case o.Azimuth < a.MinAzimuth:
		a.dir = 1
	}
	o.Azimuth += a.Speed * a.dir
	switch {
	case a.dir > 0 && o.Azimuth >= a.MaxAzimuth-a.Epsilon:
		o.Azimuth = a.MaxAzimuth
		a.dir = -1
	case a.dir < 0 && o.Azimuth <= a.MinAzimuth+a.Epsilon:
		o.Azimuth = a.MinAzimuth
		a.dir = 1
	}
	return c.WithOrbit(o)
}

// Clamp keeps a manually orbited camera inside the rotation bounds.
func (a *AutoRotate) Clamp(c Camera) Camera {
	o := OrbitOf(c)
	az := clamp(o.Azimuth, a.MinAzimuth, a.MaxAzimuth)
	if az == o.Azimuth {
		return c
	}
	o.Azimuth = az
	return c.WithOrbit(o)
}
