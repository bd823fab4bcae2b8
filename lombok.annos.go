package lombok

// Fully-qualified names of the annotations and marker types handled by the
// processor.
const (
	Rethrow                   = "lombok.Rethrow"
	Rethrows                  = "lombok.Rethrows"
	Function                  = "lombok.Function"
	DoPrivileged              = "lombok.DoPrivileged"
	DoPrivilegedSanitizeWith  = "lombok.DoPrivileged.SanitizeWith"
	ReadLock                  = "lombok.ReadLock"
	WriteLock                 = "lombok.WriteLock"
	Signal                    = "lombok.Signal"
	Await                     = "lombok.Await"
	AwaitBeforeAndSignalAfter = "lombok.AwaitBeforeAndSignalAfter"
	FluentSetter              = "lombok.FluentSetter"
	BoundSetter               = "lombok.BoundSetter"
	BoundPropertySupport      = "lombok.BoundPropertySupport"
	Builder                   = "lombok.Builder"
	BuilderExtension          = "lombok.Builder.Extension"
	Sanitize                  = "lombok.Sanitize"
	SanitizeWith              = "lombok.Sanitize.With"
	SanitizeNormalize         = "lombok.Sanitize.Normalize"
	Validate                  = "lombok.Validate"
	ValidateNotNull           = "lombok.Validate.NotNull"
	ValidateNotEmpty          = "lombok.Validate.NotEmpty"
	ValidateWith              = "lombok.Validate.With"
	Singleton                 = "lombok.Singleton"
	SwingInvokeLater          = "lombok.SwingInvokeLater"
	SwingInvokeAndWait        = "lombok.SwingInvokeAndWait"
	VisibleForTesting         = "lombok.VisibleForTesting"
	AutoGenMethodStub         = "lombok.AutoGenMethodStub"

	// Application and JvmAgent are interfaces, not annotations. Types that
	// implement them get entry points generated.
	Application = "lombok.Application"
	JvmAgent    = "lombok.JvmAgent"

	// Yield is the class declaring the static yield(Object) marker method.
	Yield = "lombok.Yield"
)

func init() {
	lockElements := []AnnotationElement{{Name: "value", Default: ""}}

	RegisterAnnotationType(AnnotationType{
		Name:            Rethrow,
		AllowedElements: []ElementType{Methods, Constructors},
		Elements: []AnnotationElement{
			{Name: "value", Default: []string{}},
			{Name: "as", Default: "java.lang.RuntimeException"},
			{Name: "message", Default: ""},
		},
	})
	RegisterAnnotationType(AnnotationType{
		Name:            Rethrows,
		AllowedElements: []ElementType{Methods, Constructors},
		Elements:        []AnnotationElement{{Name: "value", Required: true}},
	})
	RegisterAnnotationType(AnnotationType{
		Name:            Function,
		AllowedElements: []ElementType{Methods},
		Elements:        []AnnotationElement{{Name: "template", Default: "lombok.Functions"}},
	})
	RegisterAnnotationType(AnnotationType{
		Name:            DoPrivileged,
		AllowedElements: []ElementType{Methods},
	})
	RegisterAnnotationType(AnnotationType{
		Name:            DoPrivilegedSanitizeWith,
		AllowedElements: []ElementType{Parameters},
		Elements:        []AnnotationElement{{Name: "value", Required: true}},
	})
	RegisterAnnotationType(AnnotationType{
		Name:            ReadLock,
		AllowedElements: []ElementType{Methods},
		Elements:        lockElements,
	})
	RegisterAnnotationType(AnnotationType{
		Name:            WriteLock,
		AllowedElements: []ElementType{Methods},
		Elements:        lockElements,
	})
	RegisterAnnotationType(AnnotationType{
		Name:            Signal,
		AllowedElements: []ElementType{Methods},
		Elements: []AnnotationElement{
			{Name: "value", Required: true},
			{Name: "pos", Default: "AFTER"},
			{Name: "lockName", Default: ""},
		},
	})
	RegisterAnnotationType(AnnotationType{
		Name:            Await,
		AllowedElements: []ElementType{Methods},
		Elements: []AnnotationElement{
			{Name: "value", Required: true},
			{Name: "conditionMethod", Required: true},
			{Name: "pos", Default: "BEFORE"},
			{Name: "lockName", Default: ""},
		},
	})
	RegisterAnnotationType(AnnotationType{
		Name:            AwaitBeforeAndSignalAfter,
		AllowedElements: []ElementType{Methods},
		Elements: []AnnotationElement{
			{Name: "awaitConditionName", Required: true},
			{Name: "awaitConditionMethod", Required: true},
			{Name: "signalConditionName", Required: true},
			{Name: "lockName", Default: ""},
		},
	})
	RegisterAnnotationType(AnnotationType{
		Name:            FluentSetter,
		AllowedElements: []ElementType{Types, Fields},
		Elements:        []AnnotationElement{{Name: "value", Default: "PUBLIC"}},
	})
	RegisterAnnotationType(AnnotationType{
		Name:            BoundSetter,
		AllowedElements: []ElementType{Types, Fields},
		Elements:        []AnnotationElement{{Name: "value", Default: "PUBLIC"}},
	})
	RegisterAnnotationType(AnnotationType{
		Name:            BoundPropertySupport,
		AllowedElements: []ElementType{Types},
	})
	RegisterAnnotationType(AnnotationType{
		Name:            Builder,
		AllowedElements: []ElementType{Types},
		Elements: []AnnotationElement{
			{Name: "value", Default: "PUBLIC"},
			{Name: "prefix", Default: ""},
			{Name: "exclude", Default: []string{}},
			{Name: "convenientMethods", Default: true},
			{Name: "callMethods", Default: []string{}},
		},
	})
	RegisterAnnotationType(AnnotationType{
		Name:            BuilderExtension,
		AllowedElements: []ElementType{Methods},
	})
	RegisterAnnotationType(AnnotationType{
		Name:            Sanitize,
		AllowedElements: []ElementType{Methods, Constructors},
	})
	RegisterAnnotationType(AnnotationType{
		Name:            SanitizeWith,
		AllowedElements: []ElementType{Parameters},
		Elements:        []AnnotationElement{{Name: "value", Required: true}},
	})
	RegisterAnnotationType(AnnotationType{
		Name:            SanitizeNormalize,
		AllowedElements: []ElementType{Parameters},
		Elements:        []AnnotationElement{{Name: "value", Default: "NFKC"}},
	})
	RegisterAnnotationType(AnnotationType{
		Name:            Validate,
		AllowedElements: []ElementType{Methods, Constructors},
	})
	RegisterAnnotationType(AnnotationType{
		Name:            ValidateNotNull,
		AllowedElements: []ElementType{Parameters},
	})
	RegisterAnnotationType(AnnotationType{
		Name:            ValidateNotEmpty,
		AllowedElements: []ElementType{Parameters},
	})
	RegisterAnnotationType(AnnotationType{
		Name:            ValidateWith,
		AllowedElements: []ElementType{Parameters},
		Elements:        []AnnotationElement{{Name: "value", Required: true}},
	})
	RegisterAnnotationType(AnnotationType{
		Name:            Singleton,
		AllowedElements: []ElementType{Types},
	})
	RegisterAnnotationType(AnnotationType{
		Name:            SwingInvokeLater,
		AllowedElements: []ElementType{Methods},
	})
	RegisterAnnotationType(AnnotationType{
		Name:            SwingInvokeAndWait,
		AllowedElements: []ElementType{Methods},
	})
	RegisterAnnotationType(AnnotationType{
		Name:            VisibleForTesting,
		AllowedElements: []ElementType{Types, Fields, Methods, Constructors},
	})
	RegisterAnnotationType(AnnotationType{
		Name:            AutoGenMethodStub,
		AllowedElements: []ElementType{Types},
	})
}
