package config

import (
	"flag"
)

type flags struct {
	configFile string
	addr       string
	dsn        string
	uploadDir  string
}

// parseFlags reads the command-line flags. Flags that were not given leave
// the corresponding setting untouched.
//
//	-config string  YAML config file
//	-addr string    HTTP bind address
//	-dsn string     PostgreSQL DSN
//	-uploads string directory for locally stored profile images
func parseFlags(args []string) (*flags, error) {
	f := &flags{}
	fs := flag.NewFlagSet("jobboard", flag.ContinueOnError)
	fs.StringVar(&f.configFile, "config", "", "path to a YAML config file")
	fs.StringVar(&f.addr, "addr", "", "address and port to run server")
	fs.StringVar(&f.dsn, "dsn", "", "database DSN")
	fs.StringVar(&f.uploadDir, "uploads", "", "upload directory")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *flags) apply(cfg *Config) {
	if f.addr != "" {
		cfg.HTTPAddr = f.addr
	}
	if f.dsn != "" {
		cfg.DatabaseDSN = f.dsn
	}
	if f.uploadDir != "" {
		cfg.UploadDir = f.uploadDir
	}
}
