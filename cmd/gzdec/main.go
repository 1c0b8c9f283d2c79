package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/driverfury/gzdec"
)

var cli struct {
	Input  string `kong:"arg,required,help='Path to the gzip member to decompress',type='path'"`
	Output string `kong:"help='Output file (defaults to the input path without its .gz suffix)',short='o',type='path'"`
	Stdout bool   `kong:"help='Write the decompressed bytes to stdout',short='c'"`
	Cap    int    `kong:"help='Decode into a fixed buffer of this many bytes instead of growing'"`
	Size   bool   `kong:"help='Print the size hint from the member trailer and exit',short='s'"`
	Debug  bool   `kong:"help='Enable debug output',short='d'"`
}

func main() {
	kong.Parse(&cli)

	if cli.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := run(afero.NewOsFs()); err != nil {
		logrus.Errorf("gzdec: %s", err)
		os.Exit(1)
	}
}

func run(fs afero.Fs) error {
	in, err := afero.ReadFile(fs, cli.Input)
	if err != nil {
		return errors.Wrapf(err, "unable to read %s", cli.Input)
	}
	logrus.Debugf("read %d compressed bytes from %s", len(in), cli.Input)

	if cli.Size {
		size, err := gzdec.PeekDecodedSize(in)
		if err != nil {
			return errors.Wrap(err, "unable to read size hint")
		}
		fmt.Println(size)
		return nil
	}

	var out []byte
	if cli.Cap > 0 {
		out, err = gzdec.DecodeBounded(in, cli.Cap)
	} else {
		out, err = gzdec.Decode(in)
	}
	if err != nil {
		return errors.Wrapf(err, "unable to decompress %s", cli.Input)
	}
	logrus.Debugf("decompressed to %d bytes", len(out))

	if cli.Stdout {
		_, err = os.Stdout.Write(out)
		return err
	}

	output := cli.Output
	if output == "" {
		output = strings.TrimSuffix(cli.Input, ".gz")
		if output == cli.Input {
			output = cli.Input + ".out"
		}
	}
	if err := afero.WriteFile(fs, output, out, 0o644); err != nil {
		return errors.Wrapf(err, "unable to write %s", output)
	}
	logrus.Infof("wrote %d bytes to %s", len(out), output)
	return nil
}
