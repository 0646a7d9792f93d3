package protocol

// Instructions is the protocol text the controller injects into every
// agent's startup invocation. It teaches the agent to emit marker lines the
// dashboard can pick out of its terminal output.
const Instructions = `You are running as part of a monitored agent fleet. Report your progress
by printing marker lines to your output:

- Print ||STATUS: <short current activity>|| every time you start, finish,
  or change what you are working on. Keep it under 80 characters.
- Print ||SUMMARY: <one-line description of your overall goal>|| once, as
  soon as you understand the task, and again only if the goal itself
  changes.

Print each marker on its own line, exactly as shown, including the double
pipes. Do not wrap markers in code blocks.`
