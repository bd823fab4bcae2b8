package handlers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Doctusoft/lombok-ds/yield"
)

func TestRethrow(t *testing.T) {
	out, msgs := process(t, `package p;

import java.io.IOException;
import lombok.*;

class Files {
	@Rethrow(value = IOException.class, message = "cannot read $name")
	public String read(String name) throws Exception {
		return load(name);
	}

	@Rethrow
	@Rethrows({@Rethrow(value = InterruptedException.class, as = IllegalStateException.class)})
	void both() {
		run();
	}
}
`)
	assert.Empty(t, msgs)
	assertInOrder(t, out,
		"try {",
		"return load(name);",
		"catch (final java.io.IOException $e1) {",
		`throw new java.lang.RuntimeException(java.lang.String.format("cannot read %s", name), $e1);`,
	)
	assertInOrder(t, out,
		"void both() {",
		"try {",
		"run();",
		"catch (final java.lang.RuntimeException $e1) {",
		"throw $e1;",
		"catch (final java.lang.Exception $e2) {",
		"throw new java.lang.RuntimeException($e2);",
		"catch (final InterruptedException $e3) {",
		"throw new IllegalStateException($e3);",
	)
	// one try statement for both annotations
	assert.Equal(t, 2, strings.Count(out, "try {"))
	assert.NotContains(t, out, "@Rethrow")
}

func TestRethrowAbstract(t *testing.T) {
	_, msgs := process(t, `package p;

import lombok.*;

abstract class Files {
	@Rethrow
	abstract void read();
}
`)
	assert.Equal(t, []string{"@Rethrow can be used on concrete methods only"}, msgs)
}

func TestFunction(t *testing.T) {
	out, msgs := process(t, `package p;

import lombok.Functions.Function1;
import lombok.Function;

class FunctionPlain {
	@Function
	public static boolean startsWith(String string, String _prefix) {
		return string.startsWith(_prefix);
	}

	@Function
	public static <T> void notNull(T object, Function1<T, Void> notNullFunction) {
		if (object != null) notNullFunction.apply(object);
	}
}
`)
	assert.Empty(t, msgs)
	assertInOrder(t, out,
		"public static lombok.Functions.Function1<String, java.lang.Boolean> startsWith(final String _prefix) {",
		"return new lombok.Functions.Function1<String, java.lang.Boolean>() {",
		"public java.lang.Boolean apply(final String string) {",
		"return string.startsWith(_prefix);",
	)
	assertInOrder(t, out,
		"public static <T> lombok.Functions.Function2<T, Function1<T, Void>, java.lang.Void> notNull() {",
		"public java.lang.Void apply(final T object, final Function1<T, Void> notNullFunction) {",
		"notNullFunction.apply(object);",
		"return null;",
	)
	assert.NotContains(t, out, "@Function")
}

func TestFunctionErrors(t *testing.T) {
	_, msgs := process(t, `package p;

import lombok.*;

class Fns {
	@Function(template = Missing.class)
	static void missing() {
		run();
	}

	@Function
	static void tooMany(int a, int b, int c, int d, int e, int f, int g, int h, int i) {
		run();
	}
}
`)
	assert.Equal(t, []string{
		"@Function unable to resolve template type",
		"@Function no template found that matches the given method signature",
	}, msgs)
}

func TestFunctionAmbiguousTemplate(t *testing.T) {
	out, msgs := process(t, `package p;

import lombok.Function;

public class Fns {
	public interface F1<T, R> {
		R apply(T t);
	}

	public interface G1<T, R> {
		R call(T t);
	}

	@Function(template = Fns.class)
	public static Integer length(String s) {
		return s.length();
	}
}
`)
	assert.Equal(t, []string{"@Function more than one template found that matches the given method signature"}, msgs)
	assertInOrder(t, out,
		"public static Integer length(String s) {",
		"return s.length();",
	)
	assert.NotContains(t, out, "new p.Fns.F1")
	assert.NotContains(t, out, "new p.Fns.G1")
}

func TestDoPrivileged(t *testing.T) {
	out, msgs := process(t, `package p;

import java.io.IOException;
import lombok.*;

class Priv {
	int count;

	@DoPrivileged
	public int read() throws IOException {
		return this.count;
	}

	@DoPrivileged
	public void reset() {
		if (count > 0) {
			return;
		}
		count = 0;
	}
}
`)
	assert.Empty(t, msgs)
	assertInOrder(t, out,
		"public int read() throws IOException {",
		"return java.security.AccessController.doPrivileged(new java.security.PrivilegedExceptionAction<java.lang.Integer>() {",
		"public java.lang.Integer run() throws IOException {",
		"return Priv.this.count;",
		"} catch (final java.security.PrivilegedActionException $ex) {",
		"final java.lang.Throwable $cause = $ex.getCause();",
		"if ($cause instanceof IOException) {",
		"throw (IOException)$cause;",
		"throw new java.lang.RuntimeException($cause);",
	)
	assertInOrder(t, out,
		"public void reset() {",
		"java.security.AccessController.doPrivileged(new java.security.PrivilegedExceptionAction<java.lang.Void>() {",
		"public java.lang.Void run() {",
		"return null;",
		"return null;",
	)
}

func TestDoPrivilegedSanitizeWith(t *testing.T) {
	out, msgs := process(t, `package p;

import lombok.*;

class Store {
	@DoPrivileged
	public void save(@DoPrivileged.SanitizeWith("clean") String name, int count) {
		store(name, count);
	}

	private String clean(String value) {
		return value.trim();
	}
}
`)
	assert.Empty(t, msgs)
	assertInOrder(t, out,
		"public void save(final String $name, int count) {",
		"final String name = clean($name);",
		"try {",
		"java.security.AccessController.doPrivileged(new java.security.PrivilegedExceptionAction<java.lang.Void>() {",
		"store(name, count);",
	)
	assert.NotContains(t, out, "SanitizeWith")
}

func TestDoPrivilegedSanitizeWithErrors(t *testing.T) {
	_, msgs := process(t, `package p;

import lombok.*;

class Store {
	void log(@DoPrivileged.SanitizeWith("clean") String line) {
		store(line);
	}

	@DoPrivileged
	void save(@DoPrivileged.SanitizeWith(" ") String name) {
		store(name);
	}
}
`)
	assert.Equal(t, []string{
		"@DoPrivileged.SanitizeWith can be used on parameters of @DoPrivileged methods only",
		"@DoPrivileged.SanitizeWith 'value' may not be empty or null.",
	}, msgs)
}

func TestReadWriteLock(t *testing.T) {
	out, msgs := process(t, `package p;

import java.util.HashMap;
import java.util.Map;
import lombok.*;

class Dictionary {
	private Map<String, String> dictionary = new HashMap<String, String>();

	@WriteLock("dictionaryLock")
	public void put(String key, String value) {
		dictionary.put(key, value);
	}

	@ReadLock("dictionaryLock")
	public String get(String key) {
		return dictionary.get(key);
	}
}
`)
	assert.Empty(t, msgs)
	field := "private final java.util.concurrent.locks.ReadWriteLock dictionaryLock = new java.util.concurrent.locks.ReentrantReadWriteLock();"
	assert.Equal(t, 1, strings.Count(out, field))
	assertInOrder(t, out,
		field,
		"public void put(String key, String value) {",
		"this.dictionaryLock.writeLock().lock();",
		"try {",
		"dictionary.put(key, value);",
		"} finally {",
		"this.dictionaryLock.writeLock().unlock();",
		"public String get(String key) {",
		"this.dictionaryLock.readLock().lock();",
		"return dictionary.get(key);",
		"this.dictionaryLock.readLock().unlock();",
	)
}

func TestLockNameRequired(t *testing.T) {
	_, msgs := process(t, `package p;

import lombok.*;

class Dictionary {
	@ReadLock
	public void get() {
		run();
	}
}
`)
	assert.Equal(t, []string{"@ReadLock 'lockName' may not be empty or null."}, msgs)
}

func TestConditions(t *testing.T) {
	out, msgs := process(t, `package p;

import lombok.*;

class Buffer {
	@Await(value = "notFull", conditionMethod = "isFull", lockName = "lock")
	void put(Object o) {
		add(o);
	}

	@Signal(value = "notFull", lockName = "lock")
	Object take() {
		return remove();
	}

	@AwaitBeforeAndSignalAfter(awaitConditionName = "notEmpty", awaitConditionMethod = "isEmpty", signalConditionName = "notFull")
	Object poll() {
		return remove();
	}
}
`)
	assert.Empty(t, msgs)
	lock := "private final java.util.concurrent.locks.Lock lock = new java.util.concurrent.locks.ReentrantLock();"
	notFull := "private final java.util.concurrent.locks.Condition notFull = lock.newCondition();"
	assert.Equal(t, 1, strings.Count(out, lock))
	assert.Equal(t, 1, strings.Count(out, notFull))
	assert.Contains(t, out, "private final java.util.concurrent.locks.Lock $notEmptyNotFullLock = new java.util.concurrent.locks.ReentrantLock();")
	assert.Contains(t, out, "private final java.util.concurrent.locks.Condition notEmpty = $notEmptyNotFullLock.newCondition();")

	assertInOrder(t, out,
		"void put(Object o) throws java.lang.InterruptedException {",
		"this.lock.lock();",
		"try {",
		"while (this.isFull()) {",
		"this.notFull.await();",
		"add(o);",
		"} finally {",
		"this.lock.unlock();",
	)
	assertInOrder(t, out,
		"Object take() {",
		"this.lock.lock();",
		"return remove();",
		"} finally {",
		"this.notFull.signal();",
		"this.lock.unlock();",
	)
	assertInOrder(t, out,
		"Object poll() throws java.lang.InterruptedException {",
		"this.$notEmptyNotFullLock.lock();",
		"while (this.isEmpty()) {",
		"this.notEmpty.await();",
		"return remove();",
		"} finally {",
		"this.notFull.signal();",
		"this.$notEmptyNotFullLock.unlock();",
	)
}

func TestSanitizeValidateAndLock(t *testing.T) {
	out, msgs := process(t, `package p;

import java.util.HashMap;
import java.util.Map;
import lombok.*;

class LockPlain {
	private Map<String, String> dictionary = new HashMap<String, String>();

	@Validate
	@Sanitize
	@WriteLock("dictionaryLock")
	public void put(@Validate.NotEmpty @Sanitize.With("checkKey") String key, @Validate.NotNull String value) {
		dictionary.put(key, value);
	}

	private String checkKey(String key) {
		return key;
	}
}
`)
	assert.Empty(t, msgs)
	assertInOrder(t, out,
		"if (key == null) {",
		`throw new java.lang.NullPointerException(java.lang.String.format("The validated object '%s' (argument #%s) is null", "key", 1));`,
		"if (key.isEmpty()) {",
		`throw new java.lang.IllegalArgumentException(java.lang.String.format("The validated object '%s' (argument #%s) is empty", "key", 1));`,
		"if (value == null) {",
		`"value", 2));`,
		"final String sanitizedKey = checkKey(key);",
		"this.dictionaryLock.writeLock().lock();",
		"dictionary.put(sanitizedKey, value);",
		"this.dictionaryLock.writeLock().unlock();",
	)
	assert.NotContains(t, out, "@Validate")
	assert.NotContains(t, out, "@Sanitize")
}

func TestSanitizeNormalizeAndValidateWith(t *testing.T) {
	out, msgs := process(t, `package p;

import lombok.*;

class Titles {
	@Validate
	@Sanitize
	void set(@Sanitize.Normalize String title, @Validate.NotNull int count, @Validate.With("isValid") String s) {
		store(title, count, s);
	}
}
`)
	assert.Empty(t, msgs)
	assertInOrder(t, out,
		"if (!isValid(s)) {",
		`throw new java.lang.IllegalArgumentException(java.lang.String.format("The object '%s' (argument #%s) is invalid", "s", 3));`,
		"final String sanitizedTitle = java.text.Normalizer.normalize(title, java.text.Normalizer.Form.NFKC);",
		"store(sanitizedTitle, count, s);",
	)
	// primitives are never null
	assert.NotContains(t, out, "count == null")
}

func TestSanitizeConflict(t *testing.T) {
	_, msgs := process(t, `package p;

import lombok.*;

class Titles {
	@Sanitize
	void set(@Sanitize.Normalize @Sanitize.With("trim") String title) {
		store(title);
	}
}
`)
	assert.Equal(t, []string{"@Sanitize.With and @Sanitize.Normalize may not be used together on parameter 'title'"}, msgs)
}

func TestSwing(t *testing.T) {
	out, msgs := process(t, `package p;

import javax.swing.JFrame;
import lombok.*;

class SwingInvokeLaterPlain {
	JFrame frame;

	@SwingInvokeLater
	void test1() {
		frame.setTitle("test1");
		test3(this);
	}

	@SwingInvokeAndWait
	void test2() {
		frame.setVisible(true);
	}

	void test3(Object o) {
	}
}
`)
	assert.Empty(t, msgs)
	assertInOrder(t, out,
		"void test1() {",
		"final java.lang.Runnable $test1Runnable = new java.lang.Runnable() {",
		"public void run() {",
		`frame.setTitle("test1");`,
		"test3(SwingInvokeLaterPlain.this);",
		"if (java.awt.EventQueue.isDispatchThread()) {",
		"$test1Runnable.run();",
		"} else {",
		"java.awt.EventQueue.invokeLater($test1Runnable);",
	)
	assertInOrder(t, out,
		"void test2() {",
		"final java.lang.Runnable $test2Runnable = new java.lang.Runnable() {",
		"frame.setVisible(true);",
		"if (java.awt.EventQueue.isDispatchThread()) {",
		"java.awt.EventQueue.invokeAndWait($test2Runnable);",
		"} catch (final java.lang.InterruptedException $ex1) {",
		"java.lang.Thread.currentThread().interrupt();",
		"} catch (final java.lang.reflect.InvocationTargetException $ex2) {",
		"final java.lang.Throwable $cause = $ex2.getCause();",
	)
}

func TestSwingNonVoid(t *testing.T) {
	_, msgs := process(t, `package p;

import lombok.*;

class Frames {
	@SwingInvokeLater
	String title() {
		return "t";
	}
}
`)
	assert.Equal(t, []string{"@SwingInvokeLater can be used on void methods only"}, msgs)
}

func TestYield(t *testing.T) {
	out, msgs := process(t, `package p;

import static lombok.Yield.yield;
import java.util.Iterator;

class Numbers {
	public Iterator<Integer> count() {
		for (int i = 0; i < 3; i++) {
			yield(i);
		}
	}

	public String notAGenerator() {
		yield("a");
		return null;
	}
}
`)
	assert.Equal(t, []string{"Method that contain yield() can only return java.util.Iterator or java.lang.Iterable"}, msgs)
	assert.Contains(t, out, yield.ClassName("count"))
	assert.Contains(t, out, "public Iterator<Integer> count() {")
}

func TestYieldArrayInitializer(t *testing.T) {
	out, msgs := process(t, `package p;

import static lombok.Yield.yield;

class Pairs {
	public Iterable<Integer> pair() {
		int[] xs = {1, 2};
		yield(xs[0]);
		yield(xs[1]);
	}
}
`)
	assert.Empty(t, msgs)
	assertInOrder(t, out,
		"private int[] xs;",
		"xs = new int[]{1, 2};",
		"$next = xs[0];",
	)
	assert.NotContains(t, out, "xs = {1, 2};")
}
