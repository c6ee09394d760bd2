// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"encoding/binary"
	"errors"
	"reflect"
	"time"

	"go.mozilla.org/pkcs7"
)

// ErrNoCertificateTable is returned when the PE has no (or an empty)
// certificate data directory.
var ErrNoCertificateTable = errors.New("pe: no certificate table")

// WinCertificate is the WIN_CERTIFICATE header preceding each attribute
// certificate entry in the security directory.
type WinCertificate struct {
	Length          uint32
	Revision        uint16
	CertificateType uint16
}

// Signer is read-only Authenticode signer metadata lifted from the
// outermost PKCS#7 SignedData blob. It carries no verdict about trust:
// callers that need chain validation must do it themselves.
type Signer struct {
	Issuer             string
	Subject            string
	SerialNumber       string
	NotBefore          time.Time
	NotAfter           time.Time
	SignatureAlgorithm string
}

// ParseSigner reads the Authenticode signer metadata from the PE's
// security (certificate) data directory, if present. It returns
// ErrNoCertificateTable when the PE is unsigned.
func (pe *File) ParseSigner() (*Signer, error) {
	entry := pe.DataDirectoryEntry(ImageDirectoryEntryCertificate)
	if entry.Size == 0 {
		return nil, ErrNoCertificateTable
	}

	// The certificate table is addressed by raw file offset, not RVA,
	// unlike every other data directory entry.
	var hdr WinCertificate
	hdrSize := uint32(binary.Size(hdr))
	if err := pe.structUnpack(&hdr, entry.VirtualAddress, hdrSize); err != nil {
		return nil, err
	}
	if hdr.Length == 0 || entry.VirtualAddress+hdr.Length > pe.size {
		return nil, ErrNoCertificateTable
	}

	content, err := pe.Bytes(entry.VirtualAddress+hdrSize, hdr.Length-hdrSize)
	if err != nil {
		return nil, err
	}

	p7, err := pkcs7.Parse(content)
	if err != nil {
		return nil, err
	}
	if len(p7.Signers) == 0 || len(p7.Certificates) == 0 {
		return nil, errors.New("pe: pkcs7 blob has no signer certificate")
	}

	serial := p7.Signers[0].IssuerAndSerialNumber.SerialNumber
	for _, cert := range p7.Certificates {
		if !reflect.DeepEqual(cert.SerialNumber, serial) {
			continue
		}
		return &Signer{
			Issuer:             cert.Issuer.String(),
			Subject:            cert.Subject.String(),
			SerialNumber:       cert.SerialNumber.String(),
			NotBefore:          cert.NotBefore,
			NotAfter:           cert.NotAfter,
			SignatureAlgorithm: cert.SignatureAlgorithm.String(),
		}, nil
	}

	// Fall back to the leaf certificate when the signer's serial wasn't
	// found among the embedded certificates (e.g. a cross-signed chain).
	cert := p7.Certificates[0]
	return &Signer{
		Issuer:             cert.Issuer.String(),
		Subject:            cert.Subject.String(),
		SerialNumber:       cert.SerialNumber.String(),
		NotBefore:          cert.NotBefore,
		NotAfter:           cert.NotAfter,
		SignatureAlgorithm: cert.SignatureAlgorithm.String(),
	}, nil
}
