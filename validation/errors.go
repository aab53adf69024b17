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

package validation

// Kind classifies a failed validation stage. Every kind except
// KindReuseBelowThreshold folds into a DENIED decision; reuse-below-threshold
// folds into PENDING because a below-threshold match still exists, it just
// needs out-of-band confirmation.
type Kind int

const (
	KindInput Kind = iota + 1
	KindIdentity
	KindMatch
	KindTemporal
	KindPermission
	KindReuseBelowThreshold
	KindSystem
)

// StageError carries the failing stage, the human-readable reason that ends up
// on the decision, and diagnostic key/values for the audit info.
type StageError struct {
	Kind   Kind
	Step   string
	Reason string
	Audit  map[string]interface{}
}

func (e *StageError) Error() string {
	return e.Reason
}

func stageErr(kind Kind, step, reason string) *StageError {
	return &StageError{Kind: kind, Step: step, Reason: reason, Audit: map[string]interface{}{}}
}

func (e *StageError) with(key string, value interface{}) *StageError {
	e.Audit[key] = value
	return e
}
