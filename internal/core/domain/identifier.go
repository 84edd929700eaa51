package domain

import "regexp"

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

var keywords = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true, "byte": true,
	"case": true, "catch": true, "char": true, "class": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extends": true, "final": true, "finally": true, "float": true,
	"for": true, "goto": true, "if": true, "implements": true, "import": true,
	"instanceof": true, "int": true, "interface": true, "long": true, "native": true,
	"new": true, "package": true, "private": true, "protected": true, "public": true,
	"return": true, "short": true, "static": true, "strictfp": true, "super": true,
	"switch": true, "synchronized": true, "this": true, "throw": true, "throws": true,
	"transient": true, "try": true, "void": true, "volatile": true, "while": true,
	"true": true, "false": true, "null": true,
}

// IsKeyword reports whether word is a Java keyword or literal keyword.
func IsKeyword(word string) bool {
	return keywords[word]
}

// IsJavaIdentifier reports whether name can be declared as a Java
// identifier: it matches [A-Za-z_$][A-Za-z0-9_$]* and is not reserved.
func IsJavaIdentifier(name string) bool {
	if name == "_" || keywords[name] {
		return false
	}
	return identifierPattern.MatchString(name)
}

// IsPackageName reports whether pkg is a dotted sequence of identifiers.
// Slash separators are accepted as well.
func IsPackageName(pkg string) bool {
	pkg = PathToPackage(pkg)
	if pkg == "" {
		return false
	}
	start := 0
	for i := 0; i <= len(pkg); i++ {
		if i == len(pkg) || pkg[i] == '.' {
			if !IsJavaIdentifier(pkg[start:i]) {
				return false
			}
			start = i + 1
		}
	}
	return true
}
