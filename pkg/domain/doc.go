/*
Package domain contains the core models of the Wayfinder questionnaire engine.

It is kept pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Graph, Node, Edge: the static decision tree (question, info and result nodes).
  - State: the persisted snapshot of one traversal (position, answers, back-stack).
  - Survey, Question, ShowCondition: the linear model with declarative visibility.
  - AnswerValue: a tagged union over single, multiple, text and ranking answers.
  - Profile, Gap, Feedback: the evaluation handed to the feedback generator.
*/
package domain
