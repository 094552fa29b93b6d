// Package continuum removes an estimated background curve from a spectrum so
// that absorption features become comparable across observations. Three
// estimators are provided: segment-wise linear correction between node
// wavelengths, a quadratic fit through three local reflectance maxima
// (Horgan correction), and a whole-range least-squares line (regression
// correction). Each returns the corrected spectrum together with the
// continuum that was divided out.
package continuum
