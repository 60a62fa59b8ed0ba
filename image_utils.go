package dsconv

import (
	"image"
	"io"
	"os"

	// Register the decoders for the image types found in the source corpus.
	_ "image/jpeg"
	_ "image/png"
)

// ReadImageDimensions decodes just enough of the image at path to resolve its
// pixel dimensions. It is the default DimensionReader.
func ReadImageDimensions(path string) (width, height int, err error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()

	config, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, 0, err
	}

	return config.Width, config.Height, nil
}

// copyFile copies the regular file at src to dst, byte for byte.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer closeWithErrCheck(in, &err)

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer closeWithErrCheck(out, &err)

	_, err = io.Copy(out, in)
	return err
}
