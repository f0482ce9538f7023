package seed

import (
	"time"

	"urlinfo/internal/domain"
)

var seededAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Default returns the built-in demo corpus. A fresh copy is returned on each
// call.
func Default() Corpus {
	return Corpus{
		Signatures: []domain.ThreatSignature{
			{Pattern: "' OR '1'='1", PatternClass: domain.PatternQueryParam, ThreatCategory: domain.ThreatSQLInjection, Description: "SQL injection tautology"},
			{Pattern: "' OR 1=1", PatternClass: domain.PatternQueryParam, ThreatCategory: domain.ThreatSQLInjection, Description: "SQL injection tautology"},
			{Pattern: "UNION SELECT", PatternClass: domain.PatternFull, ThreatCategory: domain.ThreatSQLInjection, Description: "SQL union-based injection"},
			{Pattern: "SELECT * FROM", PatternClass: domain.PatternQueryParam, ThreatCategory: domain.ThreatSQLInjection, Description: "SQL select statement in parameter"},
			{Pattern: "DROP TABLE", PatternClass: domain.PatternQueryParam, ThreatCategory: domain.ThreatSQLInjection, Description: "SQL drop statement in parameter"},
			{Pattern: "<script", PatternClass: domain.PatternFull, ThreatCategory: domain.ThreatXSS, Description: "Script tag injection"},
			{Pattern: "javascript:", PatternClass: domain.PatternQueryParam, ThreatCategory: domain.ThreatXSS, Description: "JavaScript URI scheme"},
			{Pattern: "onerror=", PatternClass: domain.PatternQueryParam, ThreatCategory: domain.ThreatXSS, Description: "Inline event handler injection"},
			{Pattern: "<iframe", PatternClass: domain.PatternFull, ThreatCategory: domain.ThreatXSS, Description: "Iframe injection"},
			{Pattern: "../", PatternClass: domain.PatternPath, ThreatCategory: domain.ThreatPathTraversal, Description: "Directory traversal"},
			{Pattern: "..\\", PatternClass: domain.PatternPath, ThreatCategory: domain.ThreatPathTraversal, Description: "Windows directory traversal"},
			{Pattern: "/etc/passwd", PatternClass: domain.PatternPath, ThreatCategory: domain.ThreatPathTraversal, Description: "Unix password file access"},
			{Pattern: "; rm -rf", PatternClass: domain.PatternQueryParam, ThreatCategory: domain.ThreatCommandInjection, Description: "Shell command chaining"},
			{Pattern: "| cat ", PatternClass: domain.PatternQueryParam, ThreatCategory: domain.ThreatCommandInjection, Description: "Shell pipe to cat"},
			{Pattern: "$(", PatternClass: domain.PatternQueryParam, ThreatCategory: domain.ThreatCommandInjection, Description: "Shell command substitution"},
			{Pattern: "&& whoami", PatternClass: domain.PatternQueryParam, ThreatCategory: domain.ThreatCommandInjection, Description: "Shell command chaining"},
			{Pattern: "cmd.exe", PatternClass: domain.PatternFull, ThreatCategory: domain.ThreatMalware, Description: "Windows shell payload"},
			{Pattern: "/shell.php", PatternClass: domain.PatternPath, ThreatCategory: domain.ThreatMalware, Description: "Web shell"},
			{Pattern: ".exe?download=", PatternClass: domain.PatternFull, ThreatCategory: domain.ThreatMalware, Description: "Executable drive-by download"},
		},
		Domains: []domain.DomainRecord{
			{Hostname: "example.com", Status: domain.StatusSafe, Description: "IANA example domain", LastUpdated: seededAt},
			{Hostname: "google.com", Status: domain.StatusSafe, Description: "Search engine", LastUpdated: seededAt},
			{Hostname: "safe-domain.org", Status: domain.StatusSafe, Description: "Known good test domain", LastUpdated: seededAt},
			{Hostname: "malicious-site.com", Status: domain.StatusMalicious, Description: "Distributes malware", LastUpdated: seededAt},
			{Hostname: "malware-host.biz", Status: domain.StatusMalicious, Description: "Malware command and control", LastUpdated: seededAt},
			{Hostname: "phishing-bank.com", Status: domain.StatusPhishing, Description: "Impersonates a bank login page", LastUpdated: seededAt},
			{Hostname: "spam-domain.net", Status: domain.StatusBlacklisted, Description: "Spam source", LastUpdated: seededAt},
			{Hostname: "ad-fraud.info", Status: domain.StatusBlacklisted, Description: "Click fraud network", LastUpdated: seededAt},
		},
	}
}
