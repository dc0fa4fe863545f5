package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"dibkit/dib"
)

// Ext is the file extension of buffer files.
const Ext = ".dibk"

// Load reads a buffer file from disk.
func Load(name string) (*dib.Image, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("could not open buffer file %q: %w", name, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Error("could not close buffer file", "name", name, "error", closeErr)
		}
	}()

	img, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("could not read buffer file %q: %w", name, err)
	}
	return img, nil
}

// Save writes img to dest as a buffer file. Unless overwrite is set, an
// existing dest is an error.
func Save(dest string, img *dib.Image, compress, overwrite bool) error {
	return WriteFile(dest, overwrite, func(w io.Writer) error {
		return Write(w, img, compress)
	})
}

// WriteFile hands write a temporary file in dest's folder and renames it to
// dest once write succeeds, so a failed write never leaves a partial file
// behind. Unless overwrite is set, an existing dest is an error.
func WriteFile(dest string, overwrite bool, write func(io.Writer) error) (err error) {
	if !overwrite {
		if err := checkDest(dest); err != nil {
			return err
		}
	}

	dir, base := filepath.Split(dest)
	if dir == "" {
		dir = "."
	}
	outFile, err := os.CreateTemp(dir, base+".*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temporary destination for %q: %w", dest, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil && err == nil {
			err = fmt.Errorf("could not flush temporary destination %q: %w", outFile.Name(), defErr)
		}
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", outFile.Name(), defErr)
		}

		if canRename && err == nil {
			if defErr := os.Rename(outFile.Name(), dest); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", dest, defErr)
			}
		}
		if err != nil {
			os.Remove(outFile.Name())
		}
	}()

	if err = write(outFile); err != nil {
		return fmt.Errorf("could not write %q: %w", dest, err)
	}

	canRename = true
	return nil
}

// CheckSource reports whether src is a regular file.
func CheckSource(src string) error {
	srcFileInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("cannot stat source file %q: %w", src, err)
	}
	if !srcFileInfo.Mode().IsRegular() {
		return fmt.Errorf("cannot read non-regular file %q: %s", srcFileInfo.Name(), srcFileInfo.Mode().String())
	}
	return nil
}

func checkDest(dest string) error {
	destFileInfo, err := os.Stat(dest)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("cannot stat destination file %q: %w", dest, err)
		}
		return nil
	}
	return fmt.Errorf("destination file already exists: %q: %w", destFileInfo.Name(), fs.ErrExist)
}

// DestName replaces the extension of src's base name with ext and joins it
// to destDir.
func DestName(destDir, src, ext string) string {
	base := filepath.Base(src)
	return filepath.Join(destDir, base[:len(base)-len(filepath.Ext(base))]+ext)
}
