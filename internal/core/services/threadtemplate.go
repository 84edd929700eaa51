package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/annlib/internal/core/domain"
	"github.com/custodia-labs/annlib/internal/core/ports/driven"
)

// Verify interface compliance.
var _ Generator = (*ThreadTemplateGenerator)(nil)

const atomicBoolean = "java.util.concurrent.atomic.AtomicBoolean"

const (
	suspendBody = `SUSPEND.set(true);`

	resumeBody = `synchronized (this) {
    SUSPEND.set(false);
    notify();
}`

	stopBody = `synchronized (this) {
    t = null;
    notify();
}`

	runLoop = `Thread thisThread = Thread.currentThread();
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
}`
)

// ThreadTemplateGenerator makes the annotated class a Runnable that owns
// one worker thread with a cooperative suspend, resume and stop protocol.
type ThreadTemplateGenerator struct {
	tpl templates
}

// NewThreadTemplateGenerator creates the thread-template generator.
func NewThreadTemplateGenerator(codec driven.SourceCodec) *ThreadTemplateGenerator {
	return &ThreadTemplateGenerator{tpl: templates{codec: codec}}
}

// Kind returns domain.KindThreadTemplate.
func (g *ThreadTemplateGenerator) Kind() domain.AnnotationKind {
	return domain.KindThreadTemplate
}

// Generate reconciles the annotated class.
func (g *ThreadTemplateGenerator) Generate(_ context.Context, job *Job) ([]domain.FileEdit, error) {
	attrs, err := DecodeThreadTemplateAttributes(job.Attrs)
	if err != nil {
		return nil, err
	}
	if err := requireClass(g.Kind(), job.Unit); err != nil {
		return nil, err
	}
	unit := job.Unit
	td := unit.Type
	if err := requireSeparateField(td, "t", "SUSPEND"); err != nil {
		return nil, err
	}

	unit.MarkChanged(td.AddImplements(domain.NewTypeRef("Runnable")))
	unit.AddImport(atomicBoolean)

	r := NewReconciler(unit)
	threadType := domain.NewTypeRef("Thread")
	r.Field(&domain.FieldSlot{
		MemberBase: domain.MemberBase{Modifiers: domain.Modifiers{"private", "volatile"}},
		Type:       threadType,
		Name:       "t",
	}, InitKeep, IdentityMatch("t"))

	flagMods := domain.Modifiers{"private", "static", "final"}
	flagType := domain.NewTypeRef("AtomicBoolean")
	flagInit, err := g.tpl.expr("new AtomicBoolean(true)")
	if err != nil {
		return nil, err
	}
	r.Field(&domain.FieldSlot{
		MemberBase: domain.MemberBase{Modifiers: flagMods},
		Type:       flagType,
		Name:       "SUSPEND",
		Init:       flagInit,
	}, InitReplace, IdentityMatch("SUSPEND"), SlotMatch(flagMods, flagType))

	if err := g.constructor(r, td.Name, attrs.ThreadName); err != nil {
		return nil, err
	}
	if err := g.controls(r); err != nil {
		return nil, err
	}
	if err := g.hooks(r, attrs); err != nil {
		return nil, err
	}
	if err := g.run(r, attrs); err != nil {
		return nil, err
	}

	return []domain.FileEdit{{Path: job.Path, Unit: unit}}, nil
}

func (g *ThreadTemplateGenerator) constructor(r *Reconciler, typeName, threadName string) error {
	createSrc := "t = new Thread(this);"
	if threadName != "" {
		createSrc = fmt.Sprintf("t = new Thread(this, %s);", domain.QuoteJava(threadName))
	}
	create, err := g.tpl.statement("%s", createSrc)
	if err != nil {
		return err
	}
	start, err := g.tpl.statement("t.start();")
	if err != nil {
		return err
	}

	merge := func(stmts []domain.Statement) []domain.Statement {
		at := -1
		var (
			keep     []domain.Statement
			existing *domain.Statement
		)
		for i := range stmts {
			s := stmts[i]
			if isThreadCreate(s) || isThreadStart(s) || isLegacyThreadStart(s) {
				if at < 0 {
					at = len(keep)
				}
				if existing == nil && s.Equal(create) {
					existing = &stmts[i]
				}
				continue
			}
			keep = append(keep, s)
		}
		c := create
		if existing != nil {
			c = *existing
		}
		if at < 0 {
			at = len(keep)
		}
		out := make([]domain.Statement, 0, len(keep)+2)
		out = append(out, keep[:at]...)
		out = append(out, c, start)
		return append(out, keep[at:]...)
	}

	r.Constructor(&domain.ConstructorSlot{
		MemberBase: domain.MemberBase{Modifiers: domain.Modifiers{"public"}},
		Name:       typeName,
	}, ParamsKeep, BodyMerge(merge), ConstructorMatch())
	return nil
}

// isThreadCreate recognises "t = new Thread(...);" and "this.t = new Thread(...);".
func isThreadCreate(s domain.Statement) bool {
	t := texts(s.Tokens)
	if len(t) >= 2 && t[0] == "this" && t[1] == "." {
		t = t[2:]
	}
	return len(t) >= 6 && t[0] == "t" && t[1] == "=" && t[2] == "new" && t[3] == "Thread" && t[4] == "(" && t[len(t)-1] == ";"
}

// isThreadStart recognises "t.start();" and "this.t.start();".
func isThreadStart(s domain.Statement) bool {
	t := texts(s.Tokens)
	if len(t) >= 2 && t[0] == "this" && t[1] == "." {
		t = t[2:]
	}
	return len(t) == 6 && t[0] == "t" && t[1] == "." && t[2] == "start" && t[3] == "(" && t[4] == ")" && t[5] == ";"
}

// isLegacyThreadStart recognises "new Thread(this...).start();".
func isLegacyThreadStart(s domain.Statement) bool {
	t := texts(s.Tokens)
	n := len(t)
	return n >= 10 && t[0] == "new" && t[1] == "Thread" && t[2] == "(" && t[3] == "this" &&
		t[n-6] == ")" && t[n-5] == "." && t[n-4] == "start" && t[n-3] == "(" && t[n-2] == ")" && t[n-1] == ";"
}

func texts(toks []domain.Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Text
	}
	return out
}

func (g *ThreadTemplateGenerator) controls(r *Reconciler) error {
	for _, m := range []struct{ name, body string }{
		{"suspend", suspendBody},
		{"resume", resumeBody},
		{"stop", stopBody},
	} {
		body, err := g.tpl.block("%s", m.body)
		if err != nil {
			return err
		}
		r.Method(&domain.MethodSlot{
			MemberBase: domain.MemberBase{Modifiers: domain.Modifiers{"public"}},
			Result:     domain.NewTypeRef("void"),
			Name:       m.name,
			Body:       body,
		}, BodyReplace, IdentityMatch(m.name))
	}
	return nil
}

func (g *ThreadTemplateGenerator) hooks(r *Reconciler, attrs domain.ThreadTemplateAttributes) error {
	hook := func(name string, params ...domain.Parameter) *domain.MethodSlot {
		return &domain.MethodSlot{
			MemberBase: domain.MemberBase{Modifiers: domain.Modifiers{"private"}},
			Result:     domain.NewTypeRef("void"),
			Name:       name,
			Params:     params,
			Body:       domain.NewBlock(),
		}
	}

	r.Method(hook("doInThread"), BodyKeep, IdentityMatch("doInThread"))

	if attrs.DoBeforeStart {
		r.Method(hook("doBeforeStart"), BodyKeep, IdentityMatch("doBeforeStart"))
	} else {
		r.Remove(&domain.MethodSlot{}, IdentityMatch("doBeforeStart"))
	}

	if attrs.DoAfterStop {
		thread := domain.Parameter{Type: domain.NewTypeRef("Thread"), Name: "thread"}
		r.Method(hook("doAfterStop", thread), BodyKeep, IdentityMatch("doAfterStop"))
	} else {
		r.Remove(&domain.MethodSlot{}, IdentityMatch("doAfterStop"))
	}
	return nil
}

func (g *ThreadTemplateGenerator) run(r *Reconciler, attrs domain.ThreadTemplateAttributes) error {
	src := runLoop
	if attrs.DoBeforeStart {
		src = "doBeforeStart();\n" + src
	}
	if attrs.DoAfterStop {
		src += "\ndoAfterStop(thisThread);"
	}
	body, err := g.tpl.block("%s", src)
	if err != nil {
		return err
	}
	r.Method(&domain.MethodSlot{
		MemberBase: domain.MemberBase{
			Annotations: []domain.Annotation{{Name: "Override"}},
			Modifiers:   domain.Modifiers{"public"},
		},
		Result: domain.NewTypeRef("void"),
		Name:   "run",
		Body:   body,
	}, BodyReplace, IdentityMatch("run"))
	return nil
}
