/*
 *  Consent validation service holds the decision logic for consent based data access
 *  Copyright (C) 2025 Consent Management Platform community
 *
 *  This program is free software: you can redistribute it and/or modify
 *  it under the terms of the GNU General Public License as published by
 *  the Free Software Foundation, either version 3 of the License, or
 *  (at your option) any later version.
 *
 *  This program is distributed in the hope that it will be useful,
 *  but WITHOUT ANY WARRANTY; without even the implied warranty of
 *  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 *  GNU General Public License for more details.
 *
 *  You should have received a copy of the GNU General Public License
 *  along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package fhir

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/thedevsaddam/gojsonq/v2"
)

// ConsentFact gives read access to the fields of a rendered FHIR Consent
// resource without committing to a full struct mapping. The payload is the
// canonical form; Hash derives the tamper-evident reference from it.
type ConsentFact struct {
	payload []byte
}

// FactFrom wraps a rendered Consent resource.
func FactFrom(payload []byte) ConsentFact {
	return ConsentFact{payload: payload}
}

func (c ConsentFact) query() *gojsonq.JSONQ {
	return gojsonq.New().FromString(string(c.payload))
}

func (c ConsentFact) ID() string {
	id, ok := c.query().Find("id").(string)
	if ok {
		return id
	}
	return ""
}

// PatientID returns the bare patient identifier, without the reference prefix.
func (c ConsentFact) PatientID() string {
	reference, ok := c.query().Find("patient.reference").(string)
	if !ok {
		return ""
	}
	return strings.TrimPrefix(reference, "Patient/")
}

// Organization returns the custodian actor's organization identifier.
func (c ConsentFact) Organization() string {
	reference, ok := c.query().Find("provision.actor.[0].reference.reference").(string)
	if !ok {
		return ""
	}
	return strings.TrimPrefix(reference, "Organization/")
}

func (c ConsentFact) Purpose() string {
	code, ok := c.query().Find("provision.purpose.[0].code").(string)
	if ok {
		return code
	}
	return ""
}

func (c ConsentFact) Start() string {
	start, ok := c.query().Find("provision.dataPeriod.start").(string)
	if ok {
		return start
	}
	return ""
}

func (c ConsentFact) End() string {
	end, ok := c.query().Find("provision.dataPeriod.end").(string)
	if ok {
		return end
	}
	return ""
}

// DataClasses returns the display names of the granted data classes.
func (c ConsentFact) DataClasses() []string {
	entries, ok := c.query().Find("provision.class").([]interface{})
	if !ok {
		return nil
	}
	classes := make([]string, 0, len(entries))
	for _, entry := range entries {
		if class, ok := entry.(map[string]interface{}); ok {
			if display, ok := class["display"].(string); ok {
				classes = append(classes, display)
			}
		}
	}
	return classes
}

func (c ConsentFact) Hash() string {
	return fmt.Sprintf("%x", sha256.Sum256(c.payload))
}

func (c ConsentFact) Payload() []byte {
	return c.payload
}
