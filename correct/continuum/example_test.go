package continuum_test

import (
	"fmt"

	"github.com/cwbudde/algo-spectral/correct/continuum"
	"github.com/cwbudde/algo-spectral/spectral/series"
)

func ExampleLinear() {
	s, _ := series.New([]float64{10, 8, 6, 9, 10}, []float64{400, 450, 500, 550, 600})

	res, _ := continuum.Linear(s, nil)
	fmt.Println(res.Corrected)
	fmt.Println(res.Continuum)

	// Output:
	// [1 0.8 0.6 0.9 1]
	// [10 10 10 10 10]
}

func ExampleRegression() {
	res, _ := continuum.Regression([]float64{1, 2, 3, 4}, []float64{2, 4, 6, 8})
	fmt.Println(res.Corrected)
	fmt.Println(res.Continuum)

	// Output:
	// [1 1 1 1]
	// [2 4 6 8]
}
