package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/annlib/internal/core/domain"
)

const workerPath = "src/main/java/app/Worker.java"

func TestThreadTemplate_EmptyClass(t *testing.T) {
	p := newProject(t, map[string]string{
		workerPath: `package app;

import application.annotations.ThreadTemplate;

@ThreadTemplate(threadName = "worker")
public class Worker {
}
`,
	})

	report := p.run(t, domain.RunOptions{})
	require.False(t, report.Failed(), p.sink.messages())

	assert.Equal(t, `package app;

import application.annotations.ThreadTemplate;
import java.util.concurrent.atomic.AtomicBoolean;

@ThreadTemplate(threadName = "worker")
public class Worker implements Runnable {
    private volatile Thread t;
    private static final AtomicBoolean SUSPEND = new AtomicBoolean(true);

    public Worker() {
        t = new Thread(this, "worker");
        t.start();
    }

    public void suspend() {
        SUSPEND.set(true);
    }

    public void resume() {
        synchronized (this) {
            SUSPEND.set(false);
            notify();
        }
    }

    public void stop() {
        synchronized (this) {
            t = null;
            notify();
        }
    }

    private void doInThread() {}

    @Override
    public void run() {
        Thread thisThread = Thread.currentThread();
        while (t == thisThread) {
            try {
                if (SUSPEND.get()) {
                    synchronized (this) {
                        while (SUSPEND.get() && t == thisThread) {
                            wait();
                        }
                    }
                }
            } catch (InterruptedException e) {
                Thread.currentThread().interrupt();
            }
            if (t == null) {
                break;
            }
            doInThread();
        }
    }
}
`, p.read(t, workerPath))

	p.assertIdempotent(t)
}

func TestThreadTemplate_RewritesLegacyStart(t *testing.T) {
	p := newProject(t, map[string]string{
		workerPath: `package app;

import application.annotations.ThreadTemplate;

@ThreadTemplate
public class Worker {
    private final int size;

    public Worker(int size) {
        this.size = size;
        new Thread(this).start();
        log("created");
    }

    private void doInThread() {
        System.out.println(size);
    }

    private void log(String msg) {
    }
}
`,
	})

	report := p.run(t, domain.RunOptions{})
	require.False(t, report.Failed(), p.sink.messages())

	out := p.read(t, workerPath)
	assert.Contains(t, out, `    public Worker(int size) {
        this.size = size;
        t = new Thread(this);
        t.start();
        log("created");
    }`)
	assert.Contains(t, out, "private void doInThread() {\n        System.out.println(size);\n    }")
	assert.NotContains(t, out, "new Thread(this).start()")
	p.assertIdempotent(t)
}

func TestThreadTemplate_Hooks(t *testing.T) {
	p := newProject(t, map[string]string{
		workerPath: `package app;

import application.annotations.ThreadTemplate;

@ThreadTemplate(doBeforeStart = true, doAfterStop = true)
public class Worker {
}
`,
	})

	report := p.run(t, domain.RunOptions{})
	require.False(t, report.Failed(), p.sink.messages())

	unit := p.unit(t, workerPath)
	require.NotNil(t, unit.Type.Method("doBeforeStart"))
	after := unit.Type.Method("doAfterStop")
	require.NotNil(t, after)
	require.Len(t, after.Params, 1)
	assert.Equal(t, "Thread", after.Params[0].Type.Name)

	run := unit.Type.Method("run")
	require.NotNil(t, run)
	stmts := run.Body.Statements
	require.NotEmpty(t, stmts)
	assert.Equal(t, "doBeforeStart();", stmts[0].Text)
	assert.Equal(t, "doAfterStop(thisThread);", stmts[len(stmts)-1].Text)
	p.assertIdempotent(t)

	// Turning the hooks off removes them again.
	src := strings.Replace(p.read(t, workerPath), "@ThreadTemplate(doBeforeStart = true, doAfterStop = true)", "@ThreadTemplate", 1)
	require.NoError(t, p.tree.WriteFile(workerPath, []byte(src)))

	report = p.run(t, domain.RunOptions{})
	require.False(t, report.Failed(), p.sink.messages())
	out := p.read(t, workerPath)
	assert.NotContains(t, out, "doBeforeStart")
	assert.NotContains(t, out, "doAfterStop")
	p.assertIdempotent(t)
}

func TestThreadTemplate_ThreadNameChangeUpdatesConstructor(t *testing.T) {
	p := newProject(t, map[string]string{
		workerPath: `package app;

import application.annotations.ThreadTemplate;

@ThreadTemplate(threadName = "a")
public class Worker {
}
`,
	})
	p.run(t, domain.RunOptions{})

	src := strings.Replace(p.read(t, workerPath), `threadName = "a"`, `threadName = "b"`, 1)
	require.NoError(t, p.tree.WriteFile(workerPath, []byte(src)))
	report := p.run(t, domain.RunOptions{})
	require.False(t, report.Failed(), p.sink.messages())

	out := p.read(t, workerPath)
	assert.Contains(t, out, `t = new Thread(this, "b");`)
	assert.NotContains(t, out, `new Thread(this, "a")`)
	assert.Equal(t, 1, strings.Count(out, "t.start();"))
}

func TestThreadTemplate_RejectsBadAttribute(t *testing.T) {
	src := `package app;

import application.annotations.ThreadTemplate;

@ThreadTemplate(doBeforeStart = "yes")
public class Worker {
}
`
	p := newProject(t, map[string]string{workerPath: src})

	report := p.run(t, domain.RunOptions{})

	require.True(t, report.Failed())
	assert.Equal(t, []string{`Attribute "doBeforeStart" must be true or false!`}, p.sink.messages())
	require.Len(t, p.sink.diags, 1)
	assert.Equal(t, 5, p.sink.diags[0].Site.Line, "configuration errors point at the annotation")
	assert.Equal(t, src, p.read(t, workerPath))
}

func TestThreadTemplate_NormalizesConstructorStatements(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "duplicate create and start",
			body: `        t = new Thread(this);
        t.start();
        t = new Thread(this);
        t.start();`,
		},
		{
			name: "start before create",
			body: `        t.start();
        t = new Thread(this);`,
		},
		{
			name: "legacy start next to create",
			body: `        t = new Thread(this);
        new Thread(this).start();
        t.start();`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProject(t, map[string]string{
				workerPath: `package app;

import application.annotations.ThreadTemplate;

@ThreadTemplate
public class Worker {
    public Worker() {
        ready();
` + tt.body + `
    }

    private void ready() {
    }
}
`,
			})

			report := p.run(t, domain.RunOptions{})
			require.False(t, report.Failed(), p.sink.messages())

			out := p.read(t, workerPath)
			assert.Contains(t, out, `    public Worker() {
        ready();
        t = new Thread(this);
        t.start();
    }`)
			assert.Equal(t, 1, strings.Count(out, "t.start();"))
			assert.Equal(t, 1, strings.Count(out, "new Thread(this)"))
			p.assertIdempotent(t)
		})
	}
}

func TestThreadTemplate_RejectsGroupedThreadField(t *testing.T) {
	src := `package app;

import application.annotations.ThreadTemplate;

@ThreadTemplate
public class Worker {
    private volatile Thread t, backup;
}
`
	p := newProject(t, map[string]string{workerPath: src})

	report := p.run(t, domain.RunOptions{})

	assert.True(t, report.Failed())
	assert.Equal(t, []string{`Field "t" must be declared separately from other variables in class Worker!`}, p.sink.messages())
	assert.Equal(t, src, p.read(t, workerPath))
}
