package connection

import (
	"crypto/tls"
	"crypto/x509"
	"os"

	"github.com/pkg/errors"
)

// TLSSettings holds the file paths used to establish an mTLS connection to
// the database server. All three files must be provided together.
type TLSSettings struct {
	CAFile   string
	CertFile string
	KeyFile  string
}

// Enabled reports whether TLS settings were provided.
func (t TLSSettings) Enabled() bool {
	return t.CAFile != "" || t.CertFile != "" || t.KeyFile != ""
}

// Config builds a *tls.Config from the configured certificate files.
//
// Example usage:
//
//	cfg, err := details.TLS.Config()
//	if err != nil {
//		return err
//	}
func (t TLSSettings) Config() (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(t.CertFile, t.KeyFile)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load certfile/keyfile")
	}

	caCert, err := os.ReadFile(t.CAFile)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load cafile")
	}

	caCertPool := x509.NewCertPool()
	caCertPool.AppendCertsFromPEM(caCert)

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      caCertPool,
		MinVersion:   tls.VersionTLS12,
	}, nil
}
