package convolve_test

import (
	"fmt"

	"github.com/cwbudde/algo-psf/psf/convolve"
	"github.com/cwbudde/algo-psf/psf/grid"
)

func ExampleConvolve() {
	// A flat image convolved with a centered delta kernel is
	// unchanged.
	image := grid.NewMap(4, 4)
	image.Fill(1)

	kernel := grid.NewMap(3, 3)
	kernel.Set(1, 1, 1)

	forward, _ := convolve.Convolve(image, kernel, false)
	adjoint, _ := convolve.Convolve(image, kernel, true)

	fmt.Printf("forward[0] = %.0f\n", forward.Pix[0])
	fmt.Printf("adjoint[0] = %.0f\n", adjoint.Pix[0])

	// Output:
	// forward[0] = 1
	// adjoint[0] = 1
}

func ExamplePSFConvolve() {
	// Three postage stamps, each blurred by its own kernel.
	data := grid.NewCube(4, 4, 3)
	data.Fill(1)

	kernels := grid.NewCube(3, 3, 3)
	for p := 0; p < 3; p++ {
		kernels.Plane(p).Set(1, 1, 1)
	}

	out, err := convolve.PSFConvolve(data, kernels, false, grid.PSFObjVar, grid.FormatCube)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("planes: %d\n", out.Planes)
	fmt.Printf("center pixel: %.0f\n", out.Plane(1).At(2, 2))

	// Output:
	// planes: 3
	// center pixel: 1
}
