// Package axis provides the wavelength axis type and the nearest-match
// resolution primitive that underlies all labeled access into spectral
// containers. A lookup succeeds when the nearest axis entry lies within a
// caller-supplied tolerance; exact floating-point equality is never required.
package axis
