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

const consentTemplate = `
{
  "resourceType": "Consent",
  "id": "{{consentId}}",
  "meta": {
    "versionId": "1",
    "lastUpdated": "{{lastUpdated}}"
  },
  "status": "active",
  "scope": {
    "coding": [
      {
        "system": "http://terminology.hl7.org/CodeSystem/consentscope",
        "code": "patient-privacy"
      }
    ]
  },
  "category": [
    {
      "coding": [
        {
          "system": "http://terminology.hl7.org/CodeSystem/consentcategorycodes",
          "code": "idscl"
        }
      ]
    }
  ],
  "patient": {
    "reference": "Patient/{{patientId}}"
  },
  "dateTime": "{{dateTime}}",
  "performer": [{
    "reference": "Patient/{{patientId}}"
  }],
  "provision": {
    "type": "permit",
    "dataPeriod": {
      "start": "{{periodStart}}"
{{#periodEnd}}
      ,"end": "{{periodEnd}}"
{{/periodEnd}}
    },
    "purpose": [
      {
        "system": "http://terminology.hl7.org/CodeSystem/v3-ActReason",
        "code": "{{purpose}}"
      }
    ],
    "actor": [
      {
        "role": {
          "coding": [
            {
              "system": "http://terminology.hl7.org/CodeSystem/v3-ParticipationType",
              "code": "CST"
            }
          ]
        },
        "reference": {
          "reference": "Organization/{{requesterOrg}}"
        }
      }
    ]
{{#hasClasses}}
    ,"class": [
{{#classes}}
      {
        "system": "http://hl7.org/fhir/resource-types",
        "code": "{{code}}",
        "display": "{{display}}"
      },
{{/classes}}
    ]
{{/hasClasses}}
{{#hasLabels}}
    ,"securityLabel": [
{{#labels}}
      {
        "system": "http://terminology.hl7.org/CodeSystem/v3-ActCode",
        "code": "{{code}}",
        "display": "{{display}}"
      },
{{/labels}}
    ]
{{/hasLabels}}
  }
}
`

const auditEventTemplate = `
{
  "resourceType": "AuditEvent",
  "type": {
    "system": "http://terminology.hl7.org/CodeSystem/audit-event-type",
    "code": "110110",
    "display": "Patient Record"
  },
  "subtype": [
    {
      "system": "http://terminology.hl7.org/CodeSystem/iso-21089-lifecycle",
      "code": "access",
      "display": "Access/View Record Lifecycle Event"
    }
  ],
  "action": "{{action}}",
  "recorded": "{{recorded}}",
  "outcome": "{{outcome}}",
  "outcomeDesc": "{{outcomeDesc}}",
  "agent": [
    {
      "type": {
        "coding": [
          {
            "system": "http://terminology.hl7.org/CodeSystem/extra-security-role-type",
            "code": "humanuser",
            "display": "Human User"
          }
        ]
      },
      "who": {
        "reference": "Practitioner/{{requesterId}}"
      },
      "requestor": true,
      "role": [
        {
          "coding": [
            {
              "system": "http://terminology.hl7.org/CodeSystem/v3-RoleCode",
              "code": "{{roleCode}}",
              "display": "{{roleDisplay}}"
            }
          ]
        }
      ],
      "network": {
        "address": "{{requesterOrg}}",
        "type": "5"
      }
    }
  ],
  "source": {
    "site": "Consent Management Platform",
    "observer": {
      "reference": "Device/cmp-validation-engine"
    },
    "type": [
      {
        "system": "http://terminology.hl7.org/CodeSystem/security-source-type",
        "code": "4",
        "display": "Application Server"
      }
    ]
  },
  "entity": [
    {
      "what": {
        "reference": "Patient/{{patientId}}"
      },
      "type": {
        "system": "http://terminology.hl7.org/CodeSystem/audit-entity-type",
        "code": "1",
        "display": "Person"
      },
      "role": {
        "system": "http://terminology.hl7.org/CodeSystem/object-role",
        "code": "1",
        "display": "Patient"
      }
    }
  ],
  "purposeOfEvent": [
    {
      "coding": [
        {
          "system": "http://terminology.hl7.org/CodeSystem/v3-ActReason",
          "code": "{{purpose}}",
          "display": "{{purpose}}"
        }
      ]
    }
  ]
}
`
