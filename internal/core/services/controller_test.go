package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/annlib/internal/core/domain"
)

const (
	controllersApp = `package app;

import application.annotations.GenerateControllers;
import org.springframework.web.bind.annotation.RestController;

@GenerateControllers(domainPackagePath = "app.domain", controllerAnnotation = RestController.class)
public class App {
}
`
	personControllerPath = "src/controllers/PersonController.java"
)

func TestControllers_CreatesClasses(t *testing.T) {
	p := newProject(t, withApp(domainFiles(), controllersApp))

	report := p.run(t, domain.RunOptions{})
	require.False(t, report.Failed(), p.sink.messages())
	assert.Equal(t, 2, report.Count(domain.OutcomeCreated))

	assert.Equal(t, `package controllers;

import org.springframework.web.bind.annotation.RestController;
import org.springframework.web.bind.annotation.RequestMapping;

@RestController
@RequestMapping(PersonController.BASE_URL)
public class PersonController {
    public static final String BASE_URL = "/person";
}
`, p.read(t, personControllerPath))

	order := p.unit(t, "src/controllers/OrderController.java")
	f := order.Type.Field("BASE_URL")
	require.NotNil(t, f)
	assert.Equal(t, `"/order"`, f.Init.Text)
	p.assertIdempotent(t)
}

func TestControllers_PreservesExistingClass(t *testing.T) {
	app := `package app;

import application.annotations.GenerateControllers;
import org.springframework.stereotype.Controller;
import org.springframework.web.bind.annotation.RestController;

@GenerateControllers(domainPackagePath = "app.domain", controllerAnnotation = {RestController.class, Controller.class})
public class App {
}
`
	files := withApp(domainFiles(), app)
	files[personControllerPath] = `package controllers;

import org.springframework.stereotype.Controller;
import org.springframework.web.bind.annotation.RequestMapping;

@Controller
@RequestMapping("/x")
final class PersonController {
    public static final String BASE_URL = "/people";

    public String index() {
        return "people";
    }
}
`
	p := newProject(t, files)

	report := p.run(t, domain.RunOptions{})
	require.False(t, report.Failed(), p.sink.messages())

	out := p.read(t, personControllerPath)
	assert.Contains(t, out, "@Controller\n@RequestMapping(PersonController.BASE_URL)\npublic final class PersonController {")
	assert.NotContains(t, out, "@RestController", "a listed marker is already present")
	assert.Contains(t, out, `public static final String BASE_URL = "/people";`)
	assert.Contains(t, out, "    public String index() {\n        return \"people\";\n    }")
	p.assertIdempotent(t)
}

func TestControllers_FillsEmptyBaseURL(t *testing.T) {
	files := withApp(domainFiles(), controllersApp)
	files[personControllerPath] = `package controllers;

public class PersonController {
    public static final String BASE_URL = "";
}
`
	p := newProject(t, files)

	report := p.run(t, domain.RunOptions{})
	require.False(t, report.Failed(), p.sink.messages())

	unit := p.unit(t, personControllerPath)
	f := unit.Type.Field("BASE_URL")
	require.NotNil(t, f)
	assert.Equal(t, `"/person"`, f.Init.Text)
	assert.True(t, unit.Type.HasAnnotation("RestController"))
	assert.True(t, unit.HasImport("org.springframework.web.bind.annotation.RequestMapping"))
	p.assertIdempotent(t)
}

func TestControllers_Failures(t *testing.T) {
	tests := []struct {
		name    string
		app     string
		message string
	}{
		{
			name: "not an annotation",
			app: `package app;

import application.annotations.GenerateControllers;
import app.domain.Person;

@GenerateControllers(domainPackagePath = "app.domain", controllerAnnotation = Person.class)
public class App {
}
`,
			message: `Object "Person" is not annotation!`,
		},
		{
			name: "unknown annotation",
			app: `package app;

import application.annotations.GenerateControllers;

@GenerateControllers(domainPackagePath = "app.domain", controllerAnnotation = Missing.class)
public class App {
}
`,
			message: `Class "Missing" not found!`,
		},
		{
			name: "empty annotation list",
			app: `package app;

import application.annotations.GenerateControllers;

@GenerateControllers(domainPackagePath = "app.domain", controllerAnnotation = {})
public class App {
}
`,
			message: "Controller annotation list must not be empty!",
		},
		{
			name: "invalid controller package",
			app: `package app;

import application.annotations.GenerateControllers;
import org.springframework.web.bind.annotation.RestController;

@GenerateControllers(domainPackagePath = "app.domain", controllerPackagePath = "web.1api", controllerAnnotation = RestController.class)
public class App {
}
`,
			message: `Controller package path "web.1api" is not a valid package name!`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProject(t, withApp(domainFiles(), tt.app))
			before := p.snapshot(t)

			report := p.run(t, domain.RunOptions{})

			assert.True(t, report.Failed())
			assert.Equal(t, []string{tt.message}, p.sink.messages())
			assert.Equal(t, before, p.snapshot(t))
		})
	}
}
